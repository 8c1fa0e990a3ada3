package service

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sujalbistaa/twitclone/internal/models"
)

// Like adds the caller to the post's likes. Liking twice is a no-op.
// The Like row and the counter change commit together; the unique
// (user_id, post_id) index settles concurrent duplicates.
func (s *Service) Like(ctx context.Context, apiKey string, postID uint) (err error) {
	ctx, span := s.tel.start(ctx, "Like", attribute.Int64("tweet.id", int64(postID)))
	defer func() { s.tel.end(ctx, span, "Like", err) }()

	user, err := s.Authenticate(ctx, apiKey)
	if err != nil {
		return err
	}

	var inserted bool
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockPost(tx, postID); err != nil {
			return err
		}

		res := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Like{UserID: user.ID, PostID: postID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		inserted = true

		return tx.Model(&models.Post{}).
			Where("id = ?", postID).
			UpdateColumn("count_likes", gorm.Expr("count_likes + 1")).Error
	})
	if err != nil {
		return dbError("failed to like tweet", err)
	}

	if inserted {
		s.events.Publish("like", map[string]any{"tweet_id": postID, "user_id": user.ID})
	}
	return nil
}

// Unlike removes the caller's like. Unliking a post that is not liked is a
// no-op.
func (s *Service) Unlike(ctx context.Context, apiKey string, postID uint) (err error) {
	ctx, span := s.tel.start(ctx, "Unlike", attribute.Int64("tweet.id", int64(postID)))
	defer func() { s.tel.end(ctx, span, "Unlike", err) }()

	user, err := s.Authenticate(ctx, apiKey)
	if err != nil {
		return err
	}

	var removed bool
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockPost(tx, postID); err != nil {
			return err
		}

		res := tx.Where("user_id = ? AND post_id = ?", user.ID, postID).Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		removed = true

		return tx.Model(&models.Post{}).
			Where("id = ? AND count_likes > 0", postID).
			UpdateColumn("count_likes", gorm.Expr("count_likes - 1")).Error
	})
	if err != nil {
		return dbError("failed to unlike tweet", err)
	}

	if removed {
		s.events.Publish("unlike", map[string]any{"tweet_id": postID, "user_id": user.ID})
	}
	return nil
}

// lockPost takes a row lock on the post for the rest of tx, or fails
// NotFound.
func lockPost(tx *gorm.DB, postID uint) error {
	var post models.Post
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&post, postID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound("tweet not found")
	}
	return err
}
