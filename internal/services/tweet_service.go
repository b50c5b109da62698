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

type TweetService struct {
	db     *gorm.DB
	engine *query.Engine
}

func NewTweetService(db *gorm.DB, engine *query.Engine) *TweetService {
	return &TweetService{db: db, engine: engine}
}

func (s *TweetService) Create(ctx context.Context, userID uuid.UUID, content string) (*models.Tweet, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, validationf("content is required")
	}
	tweet := &models.Tweet{Content: content, OwnerID: userID}
	if err := s.db.WithContext(ctx).Create(tweet).Error; err != nil {
		return nil, fmt.Errorf("failed to create tweet: %w", err)
	}
	return tweet, nil
}

func (s *TweetService) ListByUser(ctx context.Context, ownerID, viewerID uuid.UUID, p query.Page, sort query.Sort) (query.List[query.TweetView], error) {
	if err := ensureUser(ctx, s.db, ownerID); err != nil {
		return query.List[query.TweetView]{}, err
	}
	return s.engine.UserTweets(ctx, ownerID, viewerID, p, sort)
}

func (s *TweetService) Update(ctx context.Context, tweetID, userID uuid.UUID, content string) (*models.Tweet, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, validationf("content is required")
	}

	tweet, err := first[models.Tweet](ctx, s.db, tweetID, ErrTweetNotFound)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(tweet.OwnerID, userID); err != nil {
		return nil, err
	}

	tweet.Content = content
	if err := s.db.WithContext(ctx).Save(tweet).Error; err != nil {
		return nil, fmt.Errorf("failed to update tweet: %w", err)
	}
	return tweet, nil
}

func (s *TweetService) Delete(ctx context.Context, tweetID, userID uuid.UUID) error {
	tweet, err := first[models.Tweet](ctx, s.db, tweetID, ErrTweetNotFound)
	if err != nil {
		return err
	}
	if err := requireOwner(tweet.OwnerID, userID); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("target_type = ? AND target_id = ?", models.TargetTweet, tweetID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(tweet).Error
	})
}
