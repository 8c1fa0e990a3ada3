package service

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sujalbistaa/twitclone/internal/models"
)

// Follow adds the edge caller -> targetID. Following twice is a no-op.
func (s *Service) Follow(ctx context.Context, apiKey string, targetID uint) (err error) {
	ctx, span := s.tel.start(ctx, "Follow", attribute.Int64("user.target_id", int64(targetID)))
	defer func() { s.tel.end(ctx, span, "Follow", err) }()

	user, err := s.Authenticate(ctx, apiKey)
	if err != nil {
		return err
	}
	if user.ID == targetID {
		return invalid("you cannot follow yourself")
	}

	var inserted bool
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var target models.User
		if err := tx.Select("id").First(&target, targetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("user not found")
			}
			return err
		}

		res := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Follow{FollowerID: user.ID, FolloweeID: targetID})
		inserted = res.RowsAffected > 0
		return res.Error
	})
	if err != nil {
		return dbError("failed to follow user", err)
	}

	if inserted {
		s.events.Publish("follow", map[string]any{"follower_id": user.ID, "followee_id": targetID})
	}
	return nil
}

// Unfollow removes the edge caller -> targetID if it exists.
func (s *Service) Unfollow(ctx context.Context, apiKey string, targetID uint) (err error) {
	ctx, span := s.tel.start(ctx, "Unfollow", attribute.Int64("user.target_id", int64(targetID)))
	defer func() { s.tel.end(ctx, span, "Unfollow", err) }()

	user, err := s.Authenticate(ctx, apiKey)
	if err != nil {
		return err
	}

	res := s.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", user.ID, targetID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return dbError("failed to unfollow user", res.Error)
	}

	if res.RowsAffected > 0 {
		s.events.Publish("unfollow", map[string]any{"follower_id": user.ID, "followee_id": targetID})
	}
	return nil
}

// Followers lists the users following userID, oldest edge first. Names come
// from the users table at read time.
func (s *Service) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	return s.edgeUsers(ctx, "follows.follower_id", "follows.followee_id", userID)
}

// Following lists the users userID follows, oldest edge first.
func (s *Service) Following(ctx context.Context, userID uint) ([]models.User, error) {
	return s.edgeUsers(ctx, "follows.followee_id", "follows.follower_id", userID)
}

// edgeUsers projects the follows table onto one side: it returns the users
// found in column side for edges whose column anchor equals userID.
func (s *Service) edgeUsers(ctx context.Context, side, anchor string, userID uint) ([]models.User, error) {
	users := []models.User{}
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Joins("JOIN follows ON "+side+" = users.id").
		Where(anchor+" = ?", userID).
		Order("follows.id").
		Find(&users).Error
	if err != nil {
		return nil, dbError("failed to fetch follow list", err)
	}
	return users, nil
}
