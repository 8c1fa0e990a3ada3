package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKey(t *testing.T) {
	tests := []struct {
		filename string
		suffix   string
	}{
		{filename: "cat.JPG", suffix: ".jpg"},
		{filename: "../../etc/passwd", suffix: ""},
		{filename: "archive.tar.gz", suffix: ".gz"},
		{filename: "weird.p$g", suffix: ""},
		{filename: "", suffix: ""},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			key := NewKey(tt.filename)
			assert.True(t, strings.HasSuffix(key, tt.suffix))
			assert.Len(t, key, 36+len(tt.suffix))
			assert.Equal(t, filepath.Base(key), key)
		})
	}

	assert.NotEqual(t, NewKey("a.png"), NewKey("a.png"))
}

func TestLocalSaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocal(dir, "/static/medias/")
	require.NoError(t, err)

	ctx := context.Background()
	url, err := store.Save(ctx, "one.jpg", strings.NewReader("jpeg"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "/static/medias/one.jpg", url)

	data, err := os.ReadFile(filepath.Join(dir, "one.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(data))

	_, err = store.Save(ctx, "one.jpg", strings.NewReader("other"), "image/jpeg")
	assert.ErrorIs(t, err, ErrExists)

	require.NoError(t, store.Delete(ctx, "one.jpg"))
	_, err = os.Stat(filepath.Join(dir, "one.jpg"))
	assert.True(t, os.IsNotExist(err))

	// Deleting twice is fine.
	assert.NoError(t, store.Delete(ctx, "one.jpg"))
}

func TestLocalRejectsPathKeys(t *testing.T) {
	store, err := NewLocal(t.TempDir(), "/static")
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "../escape", strings.NewReader("x"), "")
	assert.Error(t, err)
}

type fakeObjects struct {
	put    *s3.PutObjectInput
	body   string
	delete *s3.DeleteObjectInput
	err    error
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.put = in
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.delete = in
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3SaveAndDelete(t *testing.T) {
	fake := &fakeObjects{}
	store := newS3(fake, S3Config{Bucket: "tweets", Region: "eu-west-3"})

	url, err := store.Save(context.Background(), "k.png", strings.NewReader("png"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://tweets.s3.eu-west-3.amazonaws.com/medias/k.png", url)
	assert.Equal(t, "medias/k.png", aws.ToString(fake.put.Key))
	assert.Equal(t, "image/png", aws.ToString(fake.put.ContentType))
	assert.Equal(t, "png", fake.body)

	require.NoError(t, store.Delete(context.Background(), "k.png"))
	assert.Equal(t, "medias/k.png", aws.ToString(fake.delete.Key))
}

func TestS3SaveError(t *testing.T) {
	fake := &fakeObjects{err: errors.New("boom")}
	store := newS3(fake, S3Config{Bucket: "tweets", Region: "eu-west-3", Folder: "up"})

	_, err := store.Save(context.Background(), "k.png", strings.NewReader("png"), "image/png")
	assert.ErrorContains(t, err, "up/k.png")
}
