package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vidtube/backend/internal/events"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/query"
	"gorm.io/gorm"
)

type SubscriptionService struct {
	db     *gorm.DB
	engine *query.Engine
	events events.Publisher
}

func NewSubscriptionService(db *gorm.DB, engine *query.Engine, publisher events.Publisher) *SubscriptionService {
	return &SubscriptionService{db: db, engine: engine, events: publisher}
}

// Toggle follows or unfollows channelID and reports whether the subscriber
// follows it afterwards.
func (s *SubscriptionService) Toggle(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error) {
	if subscriberID == channelID {
		return false, ErrSelfSubscribe
	}
	if err := ensureExists(ctx, s.db, &models.User{}, channelID, ErrChannelNotFound); err != nil {
		return false, err
	}

	db := s.db.WithContext(ctx)
	result := db.Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).Delete(&models.Subscription{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to unsubscribe: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		events.Emit(ctx, s.events, events.New(events.SubscriptionDeleted, subscriberID.String(), channelID.String()))
		return false, nil
	}

	if err := db.Create(&models.Subscription{SubscriberID: subscriberID, ChannelID: channelID}).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return true, nil
		}
		return false, fmt.Errorf("failed to subscribe: %w", err)
	}
	events.Emit(ctx, s.events, events.New(events.SubscriptionCreated, subscriberID.String(), channelID.String()))
	return true, nil
}

func (s *SubscriptionService) Subscribers(ctx context.Context, channelID, viewerID uuid.UUID, p query.Page, sort query.Sort) (query.List[query.ChannelSummary], error) {
	if err := ensureExists(ctx, s.db, &models.User{}, channelID, ErrChannelNotFound); err != nil {
		return query.List[query.ChannelSummary]{}, err
	}
	return s.engine.Subscribers(ctx, channelID, viewerID, p, sort)
}

func (s *SubscriptionService) SubscribedChannels(ctx context.Context, subscriberID, viewerID uuid.UUID, p query.Page, sort query.Sort) (query.List[query.ChannelSummary], error) {
	if err := ensureUser(ctx, s.db, subscriberID); err != nil {
		return query.List[query.ChannelSummary]{}, err
	}
	return s.engine.SubscribedChannels(ctx, subscriberID, viewerID, p, sort)
}
