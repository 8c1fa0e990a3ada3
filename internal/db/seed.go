package db

import (
	"crypto/rand"
	"encoding/base64"
	"errors"

	"gorm.io/gorm"

	"github.com/sujalbistaa/twitclone/internal/models"
)

// DemoUsers are the accounts created by SEED_DEMO_USERS.
func DemoUsers() []models.User {
	return []models.User{
		{Name: "user1", APIKey: "test"},
		{Name: "user2", APIKey: "test2"},
	}
}

// NewAPIKey returns a random URL-safe key built from 32 bytes of entropy.
func NewAPIKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Seed inserts users whose API key is not present yet. Users without a key
// get a generated one. Existing rows are never modified.
func Seed(db *gorm.DB, users []models.User) ([]models.User, error) {
	out := make([]models.User, 0, len(users))
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, u := range users {
			if u.APIKey == "" {
				key, err := NewAPIKey()
				if err != nil {
					return err
				}
				u.APIKey = key
			}

			var existing models.User
			err := tx.Where("api_key = ?", u.APIKey).First(&existing).Error
			switch {
			case err == nil:
				out = append(out, existing)
				continue
			case !errors.Is(err, gorm.ErrRecordNotFound):
				return err
			}

			if err := tx.Create(&u).Error; err != nil {
				return err
			}
			out = append(out, u)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
