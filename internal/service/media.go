package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm/clause"

	"github.com/sujalbistaa/twitclone/internal/models"
	"github.com/sujalbistaa/twitclone/internal/storage"
)

// UploadMedia stores r under a fresh key and records an unattached Media row
// owned by the caller. The returned id is meant for CreatePost.
func (s *Service) UploadMedia(ctx context.Context, apiKey string, r io.Reader, filename, contentType string) (id uint, err error) {
	ctx, span := s.tel.start(ctx, "UploadMedia", attribute.String("media.filename", filename))
	defer func() { s.tel.end(ctx, span, "UploadMedia", err) }()

	user, err := s.Authenticate(ctx, apiKey)
	if err != nil {
		return 0, err
	}
	if r == nil {
		return 0, invalid("file is required")
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxUploadBytes+1))
	if err != nil {
		return 0, invalid("failed to read file: " + err.Error())
	}
	switch {
	case len(data) == 0:
		return 0, invalid("file is empty")
	case int64(len(data)) > s.maxUploadBytes:
		return 0, invalid(fmt.Sprintf("file exceeds %d bytes", s.maxUploadBytes))
	}
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	key := storage.NewKey(filename)
	url, err := s.store.Save(ctx, key, bytes.NewReader(data), contentType)
	if err != nil {
		return 0, &Error{Kind: KindInternal, Message: "failed to store file", Err: err}
	}

	media := models.Media{UserID: user.ID, ObjectKey: key, URL: url}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&media).Error; err != nil {
		if derr := s.store.Delete(ctx, key); derr != nil {
			slog.ErrorContext(ctx, "Error removing orphaned media file", "key", key, "error", derr)
		}
		return 0, dbError("failed to record media", err)
	}
	return media.ID, nil
}
