package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sujalbistaa/twitclone/internal/models"
)

// Profile is a user with both projections of the follow edge set.
type Profile struct {
	User      models.User
	Followers []models.User
	Following []models.User
}

// Me returns the profile of the API key's owner.
func (s *Service) Me(ctx context.Context, apiKey string) (*Profile, error) {
	user, err := s.Authenticate(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	return s.profile(ctx, *user)
}

// UserProfile returns the profile of any user. No authentication.
func (s *Service) UserProfile(ctx context.Context, userID uint) (*Profile, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("user not found")
		}
		return nil, dbError("failed to fetch user", err)
	}
	return s.profile(ctx, user)
}

func (s *Service) profile(ctx context.Context, user models.User) (*Profile, error) {
	followers, err := s.Followers(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	following, err := s.Following(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: user, Followers: followers, Following: following}, nil
}
