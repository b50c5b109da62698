package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/vidtube/backend/internal/events"
	"github.com/vidtube/backend/internal/media"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/query"
	"gorm.io/gorm"
)

type PublishVideoInput struct {
	Title       string
	Description string
	Duration    float64
	VideoFile   *media.Upload
	Thumbnail   *media.Upload
}

type UpdateVideoInput struct {
	Title       string
	Description string
	Thumbnail   *media.Upload
}

type VideoService struct {
	db     *gorm.DB
	engine *query.Engine
	media  media.Store
	events events.Publisher
}

func NewVideoService(db *gorm.DB, engine *query.Engine, store media.Store, publisher events.Publisher) *VideoService {
	return &VideoService{db: db, engine: engine, media: store, events: publisher}
}

// Publish uploads both files before the video row exists, so a failed upload
// never leaves a half-created video behind.
func (s *VideoService) Publish(ctx context.Context, ownerID uuid.UUID, in PublishVideoInput) (*models.Video, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if title == "" || description == "" {
		return nil, validationf("title and description are required")
	}
	if in.VideoFile == nil || in.Thumbnail == nil {
		return nil, validationf("video file and thumbnail are required")
	}
	if in.Duration < 0 {
		return nil, validationf("duration must not be negative")
	}

	file, err := s.media.Upload(ctx, media.FolderVideos, *in.VideoFile)
	if err != nil {
		return nil, fmt.Errorf("failed to upload video file: %w", err)
	}
	thumb, err := s.media.Upload(ctx, media.FolderThumbnails, *in.Thumbnail)
	if err != nil {
		discardAssets(ctx, s.media, file.ID)
		return nil, fmt.Errorf("failed to upload thumbnail: %w", err)
	}

	video := &models.Video{
		Title:       title,
		Description: description,
		Duration:    in.Duration,
		VideoFile:   file.URL,
		VideoFileID: file.ID,
		Thumbnail:   thumb.URL,
		ThumbnailID: thumb.ID,
		IsPublished: true,
		OwnerID:     ownerID,
	}
	if err := s.db.WithContext(ctx).Create(video).Error; err != nil {
		discardAssets(ctx, s.media, file.ID, thumb.ID)
		return nil, fmt.Errorf("failed to create video: %w", err)
	}

	events.Emit(ctx, s.events, events.New(events.VideoPublished, ownerID.String(), video.ID.String()))
	return video, nil
}

func (s *VideoService) Search(ctx context.Context, f query.VideoFilter, p query.Page, sort query.Sort) (query.List[query.VideoCard], error) {
	if f.OwnerID != uuid.Nil {
		if err := ensureUser(ctx, s.db, f.OwnerID); err != nil {
			return query.List[query.VideoCard]{}, err
		}
	}
	return s.engine.SearchVideos(ctx, f, p, sort)
}

// Get returns a video with its owner. Unpublished videos are visible to
// their owner only; views from anyone else are counted.
func (s *VideoService) Get(ctx context.Context, videoID, viewerID uuid.UUID) (*query.VideoCard, error) {
	card, err := s.engine.VideoByID(ctx, videoID)
	if err != nil {
		return nil, notFound(err, ErrVideoNotFound)
	}
	if card.Owner.ID == viewerID {
		return &card, nil
	}
	if !card.IsPublished {
		return nil, ErrVideoNotFound
	}

	err = s.db.WithContext(ctx).Model(&models.Video{}).
		Where("id = ?", videoID).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count view: %w", err)
	}
	card.Views++
	return &card, nil
}

func (s *VideoService) Update(ctx context.Context, videoID, userID uuid.UUID, in UpdateVideoInput) (*models.Video, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if title == "" && description == "" && in.Thumbnail == nil {
		return nil, validationf("title, description or thumbnail is required")
	}

	video, err := first[models.Video](ctx, s.db, videoID, ErrVideoNotFound)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(video.OwnerID, userID); err != nil {
		return nil, err
	}

	previousThumb := ""
	if in.Thumbnail != nil {
		thumb, err := s.media.Upload(ctx, media.FolderThumbnails, *in.Thumbnail)
		if err != nil {
			return nil, fmt.Errorf("failed to upload thumbnail: %w", err)
		}
		previousThumb = video.ThumbnailID
		video.Thumbnail, video.ThumbnailID = thumb.URL, thumb.ID
	}
	if title != "" {
		video.Title = title
	}
	if description != "" {
		video.Description = description
	}

	if err := s.db.WithContext(ctx).Save(video).Error; err != nil {
		if in.Thumbnail != nil {
			discardAssets(ctx, s.media, video.ThumbnailID)
		}
		return nil, fmt.Errorf("failed to update video: %w", err)
	}
	discardAssets(ctx, s.media, previousThumb)
	return video, nil
}

func (s *VideoService) TogglePublish(ctx context.Context, videoID, userID uuid.UUID) (*models.Video, error) {
	video, err := first[models.Video](ctx, s.db, videoID, ErrVideoNotFound)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(video.OwnerID, userID); err != nil {
		return nil, err
	}

	video.IsPublished = !video.IsPublished
	if err := s.db.WithContext(ctx).Model(video).UpdateColumn("is_published", video.IsPublished).Error; err != nil {
		return nil, fmt.Errorf("failed to toggle publish status: %w", err)
	}
	return video, nil
}

// Delete removes a video and everything that references it: likes on the
// video and on its comments, the comments, watch history and playlist entries.
func (s *VideoService) Delete(ctx context.Context, videoID, userID uuid.UUID) error {
	video, err := first[models.Video](ctx, s.db, videoID, ErrVideoNotFound)
	if err != nil {
		return err
	}
	if err := requireOwner(video.OwnerID, userID); err != nil {
		return err
	}

	db := s.db.WithContext(ctx)
	comments := db.Model(&models.Comment{}).Select("id").Where("video_id = ?", videoID)

	steps := []sagaStep{
		{"likes on comments", func(context.Context) error {
			return db.Where("target_type = ? AND target_id IN (?)", models.TargetComment, comments).Delete(&models.Like{}).Error
		}},
		{"likes on video", func(context.Context) error {
			return db.Where("target_type = ? AND target_id = ?", models.TargetVideo, videoID).Delete(&models.Like{}).Error
		}},
		{"comments", func(context.Context) error {
			return db.Where("video_id = ?", videoID).Delete(&models.Comment{}).Error
		}},
		{"watch history", func(context.Context) error {
			return db.Where("video_id = ?", videoID).Delete(&models.WatchHistoryEntry{}).Error
		}},
		{"playlist entries", func(context.Context) error {
			return db.Where("video_id = ?", videoID).Delete(&models.PlaylistVideo{}).Error
		}},
		{"video", func(context.Context) error {
			return db.Delete(&models.Video{}, "id = ?", videoID).Error
		}},
	}
	if err := runSaga(ctx, "video deletion", steps); err != nil {
		return err
	}

	discardAssets(ctx, s.media, video.VideoFileID, video.ThumbnailID)
	events.Emit(ctx, s.events, events.New(events.VideoDeleted, userID.String(), videoID.String()))
	return nil
}
