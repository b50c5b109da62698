package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/query"
	"gorm.io/gorm"
)

type PlaylistInput struct {
	Name        string
	Description string
}

type PlaylistService struct {
	db     *gorm.DB
	engine *query.Engine
}

func NewPlaylistService(db *gorm.DB, engine *query.Engine) *PlaylistService {
	return &PlaylistService{db: db, engine: engine}
}

func (s *PlaylistService) Create(ctx context.Context, ownerID uuid.UUID, in PlaylistInput) (*models.Playlist, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, validationf("playlist name is required")
	}
	playlist := &models.Playlist{Name: in.Name, Description: strings.TrimSpace(in.Description), OwnerID: ownerID}
	if err := s.db.WithContext(ctx).Create(playlist).Error; err != nil {
		return nil, conflict(err, ErrPlaylistExists)
	}
	return playlist, nil
}

func (s *PlaylistService) ListByUser(ctx context.Context, ownerID uuid.UUID, p query.Page, sort query.Sort) (query.List[query.PlaylistSummary], error) {
	if err := ensureUser(ctx, s.db, ownerID); err != nil {
		return query.List[query.PlaylistSummary]{}, err
	}
	return s.engine.UserPlaylists(ctx, ownerID, p, sort)
}

func (s *PlaylistService) Get(ctx context.Context, playlistID, viewerID uuid.UUID) (*query.PlaylistDetail, error) {
	detail, err := s.engine.PlaylistByID(ctx, playlistID, viewerID)
	if err != nil {
		return nil, notFound(err, ErrPlaylistNotFound)
	}
	return &detail, nil
}

func (s *PlaylistService) owned(ctx context.Context, playlistID, userID uuid.UUID) (*models.Playlist, error) {
	playlist, err := first[models.Playlist](ctx, s.db, playlistID, ErrPlaylistNotFound)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(playlist.OwnerID, userID); err != nil {
		return nil, err
	}
	return playlist, nil
}

func (s *PlaylistService) Update(ctx context.Context, playlistID, userID uuid.UUID, in PlaylistInput) (*models.Playlist, error) {
	name := strings.TrimSpace(in.Name)
	description := strings.TrimSpace(in.Description)
	if name == "" && description == "" {
		return nil, validationf("name or description is required")
	}

	playlist, err := s.owned(ctx, playlistID, userID)
	if err != nil {
		return nil, err
	}
	if name != "" {
		playlist.Name = name
	}
	if description != "" {
		playlist.Description = description
	}

	if err := s.db.WithContext(ctx).Save(playlist).Error; err != nil {
		return nil, conflict(err, ErrPlaylistExists)
	}
	return playlist, nil
}

func (s *PlaylistService) Delete(ctx context.Context, playlistID, userID uuid.UUID) error {
	playlist, err := s.owned(ctx, playlistID, userID)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", playlist.ID).Delete(&models.PlaylistVideo{}).Error; err != nil {
			return err
		}
		return tx.Delete(playlist).Error
	})
}

func (s *PlaylistService) AddVideo(ctx context.Context, playlistID, videoID, userID uuid.UUID) error {
	if _, err := s.owned(ctx, playlistID, userID); err != nil {
		return err
	}
	if err := ensureExists(ctx, s.db, &models.Video{}, videoID, ErrVideoNotFound); err != nil {
		return err
	}

	entry := &models.PlaylistVideo{PlaylistID: playlistID, VideoID: videoID, Position: time.Now().UnixNano()}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return conflict(err, ErrAlreadyInPlaylist)
	}
	return s.touch(ctx, playlistID)
}

func (s *PlaylistService) RemoveVideo(ctx context.Context, playlistID, videoID, userID uuid.UUID) error {
	if _, err := s.owned(ctx, playlistID, userID); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Where("playlist_id = ? AND video_id = ?", playlistID, videoID).Delete(&models.PlaylistVideo{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove video from playlist: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotInPlaylist
	}
	return s.touch(ctx, playlistID)
}

func (s *PlaylistService) touch(ctx context.Context, playlistID uuid.UUID) error {
	return s.db.WithContext(ctx).Model(&models.Playlist{}).Where("id = ?", playlistID).UpdateColumn("updated_at", time.Now()).Error
}
