package service

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sujalbistaa/twitclone/internal/models"
)

// ListPosts returns every post, newest first, with author, media in
// attachment order and the users who liked it.
func (s *Service) ListPosts(ctx context.Context) (posts []models.Post, err error) {
	ctx, span := s.tel.start(ctx, "ListPosts")
	defer func() { s.tel.end(ctx, span, "ListPosts", err) }()

	err = s.db.WithContext(ctx).
		Preload("Author").
		Preload("Media", func(db *gorm.DB) *gorm.DB {
			return db.Order("position, id")
		}).
		Preload("Likes", func(db *gorm.DB) *gorm.DB {
			return db.Order("id")
		}).
		Preload("Likes.User").
		Order("id desc").
		Find(&posts).Error
	if err != nil {
		return nil, dbError("failed to fetch tweets", err)
	}
	return posts, nil
}

// CreatePost stores a post for the owner of apiKey and attaches the listed
// media. Unknown media and media already attached to a post are skipped.
func (s *Service) CreatePost(ctx context.Context, apiKey, text string, mediaIDs []uint) (id uint, err error) {
	ctx, span := s.tel.start(ctx, "CreatePost", attribute.Int("media.count", len(mediaIDs)))
	defer func() { s.tel.end(ctx, span, "CreatePost", err) }()

	user, err := s.Authenticate(ctx, apiKey)
	if err != nil {
		return 0, err
	}
	if strings.TrimSpace(text) == "" {
		return 0, invalid("tweet_data must not be empty")
	}

	post := models.Post{UserID: user.ID, Content: text}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&post).Error; err != nil {
			return err
		}

		seen := make(map[uint]bool, len(mediaIDs))
		position := 0
		for _, mediaID := range mediaIDs {
			if seen[mediaID] {
				continue
			}
			seen[mediaID] = true

			res := tx.Model(&models.Media{}).
				Where("id = ? AND post_id IS NULL", mediaID).
				Updates(map[string]any{"post_id": post.ID, "position": position})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				position++
			}
		}
		return nil
	})
	if err != nil {
		return 0, dbError("failed to create tweet", err)
	}

	s.events.Publish("new_tweet", map[string]any{"tweet_id": post.ID, "author_id": user.ID})
	return post.ID, nil
}

// DeletePost removes a post owned by the caller together with its likes.
// Attached media rows survive, detached.
func (s *Service) DeletePost(ctx context.Context, apiKey string, postID uint) (err error) {
	ctx, span := s.tel.start(ctx, "DeletePost", attribute.Int64("tweet.id", int64(postID)))
	defer func() { s.tel.end(ctx, span, "DeletePost", err) }()

	user, err := s.Authenticate(ctx, apiKey)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", postID, user.ID).
			First(&post).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("tweet not found")
			}
			return err
		}

		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Media{}).
			Where("post_id = ?", post.ID).
			Updates(map[string]any{"post_id": nil, "position": 0}).Error; err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Delete(&post).Error
	})
	if err != nil {
		return dbError("failed to delete tweet", err)
	}

	s.events.Publish("delete_tweet", map[string]any{"tweet_id": postID})
	return nil
}
