package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/query"
	"gorm.io/gorm"
)

type CommentService struct {
	db     *gorm.DB
	engine *query.Engine
}

func NewCommentService(db *gorm.DB, engine *query.Engine) *CommentService {
	return &CommentService{db: db, engine: engine}
}

func (s *CommentService) List(ctx context.Context, videoID, viewerID uuid.UUID, p query.Page, sort query.Sort) (query.List[query.CommentView], error) {
	if err := ensureExists(ctx, s.db, &models.Video{}, videoID, ErrVideoNotFound); err != nil {
		return query.List[query.CommentView]{}, err
	}
	return s.engine.VideoComments(ctx, videoID, viewerID, p, sort)
}

func (s *CommentService) Add(ctx context.Context, videoID, userID uuid.UUID, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, validationf("content is required")
	}
	if err := ensureExists(ctx, s.db, &models.Video{}, videoID, ErrVideoNotFound); err != nil {
		return nil, err
	}

	comment := &models.Comment{Content: content, VideoID: videoID, OwnerID: userID}
	if err := s.db.WithContext(ctx).Create(comment).Error; err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}
	return comment, nil
}

func (s *CommentService) Update(ctx context.Context, commentID, userID uuid.UUID, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, validationf("content is required")
	}

	comment, err := first[models.Comment](ctx, s.db, commentID, ErrCommentNotFound)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(comment.OwnerID, userID); err != nil {
		return nil, err
	}

	comment.Content = content
	if err := s.db.WithContext(ctx).Save(comment).Error; err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	return comment, nil
}

func (s *CommentService) Delete(ctx context.Context, commentID, userID uuid.UUID) error {
	comment, err := first[models.Comment](ctx, s.db, commentID, ErrCommentNotFound)
	if err != nil {
		return err
	}
	if err := requireOwner(comment.OwnerID, userID); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("target_type = ? AND target_id = ?", models.TargetComment, commentID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(comment).Error
	})
}
