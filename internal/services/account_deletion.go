package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/vidtube/backend/internal/events"
	"github.com/vidtube/backend/internal/models"
)

// DeleteAccount removes the user and everything they own or authored, as an
// ordered cleanup saga rather than one transaction. Dependents go first so a
// partial run never leaves rows pointing at a missing user; re-running after
// a failure finishes the job. Asset deletes are best effort.
func (s *AuthService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return notFound(err, ErrUserNotFound)
	}

	db := s.db.WithContext(ctx)
	ownVideos := db.Model(&models.Video{}).Select("id").Where("owner_id = ?", userID)
	ownComments := db.Model(&models.Comment{}).Select("id").Where("owner_id = ? OR video_id IN (?)", userID, ownVideos)
	ownTweets := db.Model(&models.Tweet{}).Select("id").Where("owner_id = ?", userID)
	ownPlaylists := db.Model(&models.Playlist{}).Select("id").Where("owner_id = ?", userID)

	steps := []sagaStep{
		{"likes on videos", func(ctx context.Context) error {
			return db.Where("target_type = ? AND target_id IN (?)", models.TargetVideo, ownVideos).Delete(&models.Like{}).Error
		}},
		{"likes on comments", func(ctx context.Context) error {
			return db.Where("target_type = ? AND target_id IN (?)", models.TargetComment, ownComments).Delete(&models.Like{}).Error
		}},
		{"likes on tweets", func(ctx context.Context) error {
			return db.Where("target_type = ? AND target_id IN (?)", models.TargetTweet, ownTweets).Delete(&models.Like{}).Error
		}},
		{"likes by user", func(ctx context.Context) error {
			return db.Where("liked_by_id = ?", userID).Delete(&models.Like{}).Error
		}},
		{"comments", func(ctx context.Context) error {
			return db.Where("owner_id = ? OR video_id IN (?)", userID, ownVideos).Delete(&models.Comment{}).Error
		}},
		{"tweets", func(ctx context.Context) error {
			return db.Where("owner_id = ?", userID).Delete(&models.Tweet{}).Error
		}},
		{"watch history", func(ctx context.Context) error {
			return db.Where("user_id = ? OR video_id IN (?)", userID, ownVideos).Delete(&models.WatchHistoryEntry{}).Error
		}},
		{"playlist entries", func(ctx context.Context) error {
			return db.Where("playlist_id IN (?) OR video_id IN (?)", ownPlaylists, ownVideos).Delete(&models.PlaylistVideo{}).Error
		}},
		{"playlists", func(ctx context.Context) error {
			return db.Where("owner_id = ?", userID).Delete(&models.Playlist{}).Error
		}},
		{"subscriptions", func(ctx context.Context) error {
			return db.Where("subscriber_id = ? OR channel_id = ?", userID, userID).Delete(&models.Subscription{}).Error
		}},
		{"videos", func(ctx context.Context) error {
			var videos []models.Video
			if err := db.Select("id", "video_file_id", "thumbnail_id").Where("owner_id = ?", userID).Find(&videos).Error; err != nil {
				return err
			}
			for _, v := range videos {
				discardAssets(ctx, s.media, v.VideoFileID, v.ThumbnailID)
			}
			return db.Where("owner_id = ?", userID).Delete(&models.Video{}).Error
		}},
		{"user", func(ctx context.Context) error {
			discardAssets(ctx, s.media, user.AvatarID, user.CoverImageID)
			return db.Delete(&models.User{}, "id = ?", userID).Error
		}},
	}

	if err := runSaga(ctx, "account deletion", steps); err != nil {
		return err
	}

	slog.Info("account deleted", "user_id", userID.String())
	events.Emit(ctx, s.events, events.New(events.UserDeleted, userID.String(), userID.String()))
	return nil
}
