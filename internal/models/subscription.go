package models

import "github.com/google/uuid"

// Subscription is a directed follow edge from SubscriberID to ChannelID.
type Subscription struct {
	Base
	SubscriberID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subscriptions_pair,priority:1" json:"subscriber"`
	ChannelID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subscriptions_pair,priority:2;index" json:"channel"`
}
