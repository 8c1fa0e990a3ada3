package service_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sujalbistaa/twitclone/internal/db"
	"github.com/sujalbistaa/twitclone/internal/models"
	"github.com/sujalbistaa/twitclone/internal/service"
	"github.com/sujalbistaa/twitclone/internal/storage"
)

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) Publish(typ string, _ any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, typ)
}

type fixture struct {
	svc    *service.Service
	db     *gorm.DB
	events *recorder
	alice  models.User // api key "test"
	bob    models.User // api key "test2"
}

func setup(t *testing.T, opts ...service.Option) *fixture {
	t.Helper()

	gdb, err := db.Open("sqlite://:memory:", db.Options{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	users, err := db.Seed(gdb, []models.User{
		{Name: "alice", APIKey: "test"},
		{Name: "bob", APIKey: "test2"},
	})
	require.NoError(t, err)

	store, err := storage.NewLocal(t.TempDir(), "/static/medias")
	require.NoError(t, err)

	rec := &recorder{}
	opts = append([]service.Option{service.WithPublisher(rec), service.WithMaxUploadBytes(64)}, opts...)
	svc := service.New(gdb, store, opts...)
	return &fixture{svc: svc, db: gdb, events: rec, alice: users[0], bob: users[1]}
}

func requireKind(t *testing.T, want service.Kind, err error) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, want, service.KindOf(err), "error: %v", err)
}

// likeRows counts Like rows for a post directly in the table.
func likeRows(t *testing.T, gdb *gorm.DB, postID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, gdb.Model(&models.Like{}).Where("post_id = ?", postID).Count(&n).Error)
	return n
}

func countLikes(t *testing.T, gdb *gorm.DB, postID uint) int {
	t.Helper()
	var post models.Post
	require.NoError(t, gdb.First(&post, postID).Error)
	return post.CountLikes
}
