package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/vidtube/backend/internal/events"
	"github.com/vidtube/backend/internal/media"
	"github.com/vidtube/backend/internal/models"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Username   string
	Email      string
	FullName   string
	Password   string
	Avatar     *media.Upload
	CoverImage *media.Upload
}

type LoginInput struct {
	Username string
	Email    string
	Password string
}

type LoginResult struct {
	User *models.User
	TokenPair
}

// AuthService owns the identity lifecycle: registration, login, token
// refresh, logout and account deletion.
type AuthService struct {
	db     *gorm.DB
	tokens *TokenService
	media  media.Store
	events events.Publisher
}

func NewAuthService(db *gorm.DB, tokens *TokenService, store media.Store, publisher events.Publisher) *AuthService {
	return &AuthService{db: db, tokens: tokens, media: store, events: publisher}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	for _, field := range []string{in.Username, in.Email, in.FullName, in.Password} {
		if strings.TrimSpace(field) == "" {
			return nil, validationf("all fields are required")
		}
	}

	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ? OR email = ?", models.NormalizeHandle(in.Username), models.NormalizeHandle(in.Email)).
		Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if count > 0 {
		return nil, ErrUserExists
	}

	if in.Avatar == nil {
		return nil, ErrAvatarRequired
	}

	avatar, err := s.media.Upload(ctx, media.FolderAvatars, *in.Avatar)
	if err != nil {
		return nil, fmt.Errorf("failed to upload avatar: %w", err)
	}
	uploaded := []string{avatar.ID}

	var cover media.Asset
	if in.CoverImage != nil {
		cover, err = s.media.Upload(ctx, media.FolderCovers, *in.CoverImage)
		if err != nil {
			discardAssets(ctx, s.media, uploaded...)
			return nil, fmt.Errorf("failed to upload cover image: %w", err)
		}
		uploaded = append(uploaded, cover.ID)
	}

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		FullName:     in.FullName,
		NewPassword:  in.Password,
		Avatar:       avatar.URL,
		AvatarID:     avatar.ID,
		CoverImage:   cover.URL,
		CoverImageID: cover.ID,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		discardAssets(ctx, s.media, uploaded...)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user registered", "user_id", user.ID.String(), "username", user.Username)
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	username := models.NormalizeHandle(in.Username)
	email := models.NormalizeHandle(in.Email)
	if username == "" && email == "" {
		return nil, validationf("username or email is required")
	}
	if in.Password == "" {
		return nil, validationf("password is required")
	}

	var user models.User
	err := s.db.WithContext(ctx).
		Where("(username = ? AND username <> '') OR (email = ? AND email <> '')", username, email).
		First(&user).Error
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}

	if !user.CheckPassword(in.Password) {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(&user)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&user).Update("refresh_token", pair.RefreshToken).Error; err != nil {
		return nil, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	user.RefreshToken = ""
	return &LoginResult{User: &user, TokenPair: pair}, nil
}

// Refresh rotates the token pair for current. The presented token must be
// the one persisted on the user; the swap is conditional so a replayed or
// concurrently used token loses.
func (s *AuthService) Refresh(ctx context.Context, current *models.User, incoming string) (*TokenPair, error) {
	if incoming == "" {
		return nil, newError(ErrUnauthorized, "unauthorized request")
	}

	claims, err := s.tokens.VerifyRefresh(incoming)
	if err != nil {
		return nil, ErrInvalidToken
	}
	sub, err := Subject(claims)
	if err != nil || sub != current.ID {
		return nil, ErrInvalidToken
	}

	var stored string
	err = s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", current.ID).
		Select("refresh_token").
		Scan(&stored).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load refresh token: %w", err)
	}
	if stored == "" || subtle.ConstantTimeCompare([]byte(stored), []byte(incoming)) != 1 {
		return nil, ErrInvalidToken
	}

	pair, err := s.tokens.IssuePair(current)
	if err != nil {
		return nil, err
	}

	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND refresh_token = ?", current.ID, incoming).
		UpdateColumn("refresh_token", pair.RefreshToken)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrInvalidToken
	}
	return &pair, nil
}

// Logout clears the persisted refresh token so no outstanding refresh token
// can be used again.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("refresh_token", "").Error
	if err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	return nil
}
