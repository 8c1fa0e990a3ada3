// Package storage keeps uploaded media files, on local disk or in S3.
package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrExists is returned when a key is already taken. Keys are never
// overwritten.
var ErrExists = errors.New("storage: object already exists")

// Store persists media objects and reports the public URL of each.
type Store interface {
	Save(ctx context.Context, key string, r io.Reader, contentType string) (url string, err error)
	Delete(ctx context.Context, key string) error
}

// NewKey derives a collision-safe object key from an uploaded filename.
// Only a short alphanumeric extension of the original name is kept.
func NewKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if len(ext) < 2 || len(ext) > 10 || !isAlnum(strings.TrimPrefix(ext, ".")) {
		ext = ""
	}
	return uuid.NewString() + ext
}

func isAlnum(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
