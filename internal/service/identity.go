package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sujalbistaa/twitclone/internal/models"
)

// Authenticate resolves an API key to its user. It never writes.
func (s *Service) Authenticate(ctx context.Context, apiKey string) (*models.User, error) {
	if apiKey == "" {
		return nil, unauthorized("api-key header is required")
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("api_key = ?", apiKey).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// An unknown key is an identity failure, not a missing resource.
			return nil, unauthorized("no user with this api-key")
		}
		return nil, dbError("failed to look up api-key", err)
	}
	return &user, nil
}
