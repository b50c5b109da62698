package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/query"
	"gorm.io/gorm"
)

type LikeService struct {
	db     *gorm.DB
	engine *query.Engine
}

func NewLikeService(db *gorm.DB, engine *query.Engine) *LikeService {
	return &LikeService{db: db, engine: engine}
}

func (s *LikeService) ToggleVideoLike(ctx context.Context, userID, videoID uuid.UUID) (bool, error) {
	if err := ensureExists(ctx, s.db, &models.Video{}, videoID, ErrVideoNotFound); err != nil {
		return false, err
	}
	return s.toggle(ctx, userID, models.VideoTarget(videoID))
}

func (s *LikeService) ToggleCommentLike(ctx context.Context, userID, commentID uuid.UUID) (bool, error) {
	if err := ensureExists(ctx, s.db, &models.Comment{}, commentID, ErrCommentNotFound); err != nil {
		return false, err
	}
	return s.toggle(ctx, userID, models.CommentTarget(commentID))
}

func (s *LikeService) ToggleTweetLike(ctx context.Context, userID, tweetID uuid.UUID) (bool, error) {
	if err := ensureExists(ctx, s.db, &models.Tweet{}, tweetID, ErrTweetNotFound); err != nil {
		return false, err
	}
	return s.toggle(ctx, userID, models.TweetTarget(tweetID))
}

// toggle removes an existing like or creates one and reports whether the
// target is liked afterwards. A concurrent duplicate insert loses on the
// unique index and is reported as liked.
func (s *LikeService) toggle(ctx context.Context, userID uuid.UUID, target models.LikeTarget) (bool, error) {
	db := s.db.WithContext(ctx)

	result := db.Where("liked_by_id = ? AND target_type = ? AND target_id = ?", userID, target.Kind(), target.ID()).
		Delete(&models.Like{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to remove like: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return false, nil
	}

	if err := db.Create(models.NewLike(userID, target)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return true, nil
		}
		return false, fmt.Errorf("failed to add like: %w", err)
	}
	return true, nil
}

func (s *LikeService) LikedVideos(ctx context.Context, userID uuid.UUID, p query.Page, sort query.Sort) (query.List[query.VideoCard], error) {
	return s.engine.LikedVideos(ctx, userID, p, sort)
}

func (s *LikeService) LikedComments(ctx context.Context, userID uuid.UUID, p query.Page, sort query.Sort) (query.List[query.CommentView], error) {
	return s.engine.LikedComments(ctx, userID, p, sort)
}

func (s *LikeService) LikedTweets(ctx context.Context, userID uuid.UUID, p query.Page, sort query.Sort) (query.List[query.TweetView], error) {
	return s.engine.LikedTweets(ctx, userID, p, sort)
}
