package services

import (
	"context"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/vidtube/backend/internal/config"
	"github.com/vidtube/backend/internal/database"
	"github.com/vidtube/backend/internal/events"
	"github.com/vidtube/backend/internal/media"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/query"
	"gorm.io/gorm"
)

func init() {
	sagaBackOff = func() backoff.BackOff {
		return backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Millisecond), 2)
	}
}

type fixture struct {
	db     *gorm.DB
	store  *media.MemoryStore
	events *events.Recorder
	engine *query.Engine
	tokens *TokenService
	auth   *AuthService
	users  *UserService
	videos *VideoService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := database.OpenTest(t)
	store := media.NewMemoryStore()
	rec := &events.Recorder{}
	engine := query.New(db)
	tokens := NewTokenService(&config.Config{
		AccessTokenSecret:  "access-secret",
		RefreshTokenSecret: "refresh-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: time.Hour,
	})
	return &fixture{
		db:     db,
		store:  store,
		events: rec,
		engine: engine,
		tokens: tokens,
		auth:   NewAuthService(db, tokens, store, rec),
		users:  NewUserService(db, engine, store),
		videos: NewVideoService(db, engine, store, rec),
	}
}

func image(name string) *media.Upload {
	u := media.FromBytes(name, "image/png", []byte("png-bytes"))
	return &u
}

func (f *fixture) register(t *testing.T, username string) *models.User {
	t.Helper()
	user, err := f.auth.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		FullName: "User " + username,
		Password: "secret-" + username,
		Avatar:   image("avatar.png"),
	})
	require.NoError(t, err)
	return user
}

func (f *fixture) publish(t *testing.T, owner uuid.UUID, title string) *models.Video {
	t.Helper()
	file := media.FromBytes("clip.mp4", "video/mp4", []byte("mp4-bytes"))
	video, err := f.videos.Publish(context.Background(), owner, PublishVideoInput{
		Title:       title,
		Description: "about " + title,
		Duration:    12.5,
		VideoFile:   &file,
		Thumbnail:   image("thumb.png"),
	})
	require.NoError(t, err)
	return video
}

func count(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
