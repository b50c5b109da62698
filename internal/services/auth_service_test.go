package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vidtube/backend/internal/media"
	"github.com/vidtube/backend/internal/models"
)

func TestRegisterNormalizesAndHashes(t *testing.T) {
	f := newFixture(t)
	user, err := f.auth.Register(context.Background(), RegisterInput{
		Username: "  Alice ",
		Email:    "ALICE@Example.com",
		FullName: "Alice A",
		Password: "pw",
		Avatar:   image("a.png"),
	})
	require.NoError(t, err)

	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "pw", user.Password)
	assert.True(t, user.CheckPassword("pw"))
	assert.True(t, f.store.Has(user.AvatarID))
}

func TestRegisterRejectsDuplicatesAndMissingAvatar(t *testing.T) {
	f := newFixture(t)
	f.register(t, "bob")

	_, err := f.auth.Register(context.Background(), RegisterInput{
		Username: "BOB", Email: "other@example.com", FullName: "B", Password: "pw", Avatar: image("a.png"),
	})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.auth.Register(context.Background(), RegisterInput{
		Username: "carol", Email: "carol@example.com", FullName: "C", Password: "pw",
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.auth.Register(context.Background(), RegisterInput{Username: "dave"})
	assert.ErrorIs(t, err, ErrValidation)
}

type failFolder struct {
	*media.MemoryStore
	folder string
}

func (s failFolder) Upload(ctx context.Context, folder string, u media.Upload) (media.Asset, error) {
	if folder == s.folder {
		return media.Asset{}, media.ErrInjected
	}
	return s.MemoryStore.Upload(ctx, folder, u)
}

func TestRegisterDiscardsAvatarWhenCoverFails(t *testing.T) {
	f := newFixture(t)
	auth := NewAuthService(f.db, f.tokens, failFolder{MemoryStore: f.store, folder: media.FolderCovers}, f.events)

	_, err := auth.Register(context.Background(), RegisterInput{
		Username: "erin", Email: "erin@example.com", FullName: "E", Password: "pw",
		Avatar: image("a.png"), CoverImage: image("c.png"),
	})
	require.ErrorIs(t, err, media.ErrInjected)

	assert.Equal(t, 0, f.store.Len())
	assert.Len(t, f.store.Deletes, 1)
	assert.Zero(t, count(t, f.db, &models.User{}))
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	f.register(t, "frank")
	ctx := context.Background()

	res, err := f.auth.Login(ctx, LoginInput{Email: "FRANK@example.com", Password: "secret-frank"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)
	assert.Empty(t, res.User.RefreshToken)

	var stored models.User
	require.NoError(t, f.db.First(&stored, "id = ?", res.User.ID).Error)
	assert.Equal(t, res.RefreshToken, stored.RefreshToken)

	_, err = f.auth.Login(ctx, LoginInput{Username: "frank", Password: "wrong"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.auth.Login(ctx, LoginInput{Username: "nobody", Password: "pw"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.auth.Login(ctx, LoginInput{Password: "pw"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRefreshRotatesAndRejectsReplay(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "gina")
	ctx := context.Background()

	res, err := f.auth.Login(ctx, LoginInput{Username: "gina", Password: "secret-gina"})
	require.NoError(t, err)

	pair, err := f.auth.Refresh(ctx, user, res.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, res.RefreshToken, pair.RefreshToken)

	_, err = f.auth.Refresh(ctx, user, res.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = f.auth.Refresh(ctx, user, pair.AccessToken)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.auth.Refresh(ctx, user, pair.RefreshToken)
	require.NoError(t, err)
}

func TestLogoutInvalidatesRefreshToken(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "hank")
	ctx := context.Background()

	res, err := f.auth.Login(ctx, LoginInput{Username: "hank", Password: "secret-hank"})
	require.NoError(t, err)
	require.NoError(t, f.auth.Logout(ctx, user.ID))

	_, err = f.auth.Refresh(ctx, user, res.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
