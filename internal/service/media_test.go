package service_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sujalbistaa/twitclone/internal/models"
	"github.com/sujalbistaa/twitclone/internal/service"
)

func TestUploadMedia(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	id, err := f.svc.UploadMedia(ctx, "test", strings.NewReader("\x89PNG\r\n\x1a\n"), "fake_image.png", "")
	require.NoError(t, err)

	var media models.Media
	require.NoError(t, f.db.First(&media, id).Error)
	assert.Equal(t, f.alice.ID, media.UserID)
	assert.Nil(t, media.PostID)
	assert.NotContains(t, media.URL, "fake_image")
}

func TestUploadSameNameTwiceKeepsBoth(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	a, err := f.svc.UploadMedia(ctx, "test", strings.NewReader("a"), "same.jpg", "image/jpeg")
	require.NoError(t, err)
	b, err := f.svc.UploadMedia(ctx, "test", strings.NewReader("b"), "same.jpg", "image/jpeg")
	require.NoError(t, err)

	var ma, mb models.Media
	require.NoError(t, f.db.First(&ma, a).Error)
	require.NoError(t, f.db.First(&mb, b).Error)
	assert.NotEqual(t, ma.URL, mb.URL)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestUploadMediaRejects(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	tests := []struct {
		name string
		key  string
		body io.Reader
		kind service.Kind
	}{
		{name: "no key", key: "", body: strings.NewReader("x"), kind: service.KindUnauthorized},
		{name: "empty file", key: "test", body: strings.NewReader(""), kind: service.KindInvalidArgument},
		{name: "too large", key: "test", body: strings.NewReader(strings.Repeat("x", 65)), kind: service.KindInvalidArgument},
		{name: "read error", key: "test", body: failingReader{}, kind: service.KindInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.UploadMedia(ctx, tt.key, tt.body, "x.jpg", "image/jpeg")
			requireKind(t, tt.kind, err)
		})
	}

	var n int64
	require.NoError(t, f.db.Model(&models.Media{}).Count(&n).Error)
	assert.Zero(t, n)
}
