package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vidtube/backend/internal/media"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/query"
	"gorm.io/gorm"
)

type ChangePasswordInput struct {
	OldPassword     string
	NewPassword     string
	ConfirmPassword string
}

type UpdateAccountInput struct {
	FullName string
	Email    string
}

// UserService manages a signed-in user's own account, channel profile and
// watch history.
type UserService struct {
	db     *gorm.DB
	engine *query.Engine
	media  media.Store
}

func NewUserService(db *gorm.DB, engine *query.Engine, store media.Store) *UserService {
	return &UserService{db: db, engine: engine, media: store}
}

// Identity loads a user without credential fields.
func (s *UserService) Identity(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Omit("password", "refresh_token").First(&user, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return &user, nil
}

func (s *UserService) load(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return &user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID uuid.UUID, in ChangePasswordInput) error {
	if in.OldPassword == "" || in.NewPassword == "" || in.ConfirmPassword == "" {
		return validationf("all fields are required")
	}
	if in.NewPassword != in.ConfirmPassword {
		return validationf("new password and confirm password must match")
	}
	if in.NewPassword == in.OldPassword {
		return validationf("new password must differ from the old password")
	}

	user, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	if !user.CheckPassword(in.OldPassword) {
		return ErrWrongPassword
	}

	user.NewPassword = in.NewPassword
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (s *UserService) UpdateAccount(ctx context.Context, userID uuid.UUID, in UpdateAccountInput) (*models.User, error) {
	fullName := strings.TrimSpace(in.FullName)
	email := models.NormalizeHandle(in.Email)
	if fullName == "" && email == "" {
		return nil, validationf("full name or email is required")
	}

	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if email != "" && email != user.Email {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ? AND id <> ?", email, userID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrUserExists
		}
		user.Email = email
	}
	if fullName != "" {
		user.FullName = fullName
	}

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, conflict(err, ErrUserExists)
	}
	return sanitized(user), nil
}

func (s *UserService) UpdateAvatar(ctx context.Context, userID uuid.UUID, upload *media.Upload) (*models.User, error) {
	if upload == nil {
		return nil, ErrAvatarRequired
	}
	return s.replaceImage(ctx, userID, media.FolderAvatars, *upload, func(u *models.User) (*string, *string) {
		return &u.Avatar, &u.AvatarID
	})
}

func (s *UserService) UpdateCoverImage(ctx context.Context, userID uuid.UUID, upload *media.Upload) (*models.User, error) {
	if upload == nil {
		return nil, validationf("cover image file is required")
	}
	return s.replaceImage(ctx, userID, media.FolderCovers, *upload, func(u *models.User) (*string, *string) {
		return &u.CoverImage, &u.CoverImageID
	})
}

// replaceImage uploads the new asset, points the user at it and only then
// deletes the previous asset.
func (s *UserService) replaceImage(ctx context.Context, userID uuid.UUID, folder string, upload media.Upload, field func(*models.User) (*string, *string)) (*models.User, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	asset, err := s.media.Upload(ctx, folder, upload)
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", folder, err)
	}

	url, id := field(user)
	previous := *id
	*url, *id = asset.URL, asset.ID
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		discardAssets(ctx, s.media, asset.ID)
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	discardAssets(ctx, s.media, previous)
	return sanitized(user), nil
}

func (s *UserService) ChannelProfile(ctx context.Context, username string, viewerID uuid.UUID) (*query.ChannelProfile, error) {
	if strings.TrimSpace(username) == "" {
		return nil, validationf("username is required")
	}
	profile, err := s.engine.ChannelProfile(ctx, username, viewerID)
	if err != nil {
		return nil, notFound(err, ErrChannelNotFound)
	}
	return &profile, nil
}

func (s *UserService) WatchHistory(ctx context.Context, userID uuid.UUID, p query.Page) (query.List[query.VideoCard], error) {
	return s.engine.WatchHistory(ctx, userID, p)
}

func (s *UserService) AddToWatchHistory(ctx context.Context, userID, videoID uuid.UUID) error {
	var video models.Video
	if err := s.db.WithContext(ctx).Select("id", "owner_id", "is_published").First(&video, "id = ?", videoID).Error; err != nil {
		return notFound(err, ErrVideoNotFound)
	}
	if !video.IsPublished && video.OwnerID != userID {
		return ErrVideoNotFound
	}

	entry := &models.WatchHistoryEntry{UserID: userID, VideoID: videoID, Position: time.Now().UnixNano()}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return conflict(err, ErrAlreadyInHistory)
	}
	return nil
}

func (s *UserService) RemoveFromWatchHistory(ctx context.Context, userID, videoID uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("user_id = ? AND video_id = ?", userID, videoID).Delete(&models.WatchHistoryEntry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotInHistory
	}
	return nil
}

func (s *UserService) ClearWatchHistory(ctx context.Context, userID uuid.UUID) error {
	return s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.WatchHistoryEntry{}).Error
}

func sanitized(u *models.User) *models.User {
	u.Password = ""
	u.RefreshToken = ""
	return u
}
