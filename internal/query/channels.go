package query

import (
	"context"

	"github.com/google/uuid"
	"github.com/vidtube/backend/internal/models"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

const channelProfileSelect = "users.id, users.username, users.full_name, users.email, users.avatar, users.cover_image, users.created_at, " +
	"(SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = users.id) AS subscribers_count, " +
	"(SELECT COUNT(*) FROM subscriptions s WHERE s.subscriber_id = users.id) AS channels_subscribed_to_count, " +
	"EXISTS (SELECT 1 FROM subscriptions s WHERE s.channel_id = users.id AND s.subscriber_id = ?) AS is_subscribed"

// ChannelProfile looks up a channel by username with its subscription
// counts and whether viewerID follows it.
func (e *Engine) ChannelProfile(ctx context.Context, username string, viewerID uuid.UUID) (out ChannelProfile, err error) {
	username = models.NormalizeHandle(username)
	ctx, span := e.start(ctx, "ChannelProfile", attribute.String("channel.username", username))
	defer func() { finish(span, err) }()

	var rows []ChannelProfile
	err = e.db.WithContext(ctx).
		Table("users").
		Select(channelProfileSelect, viewerID).
		Where("users.username = ?", username).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return out, err
	}
	if len(rows) == 0 {
		return out, gorm.ErrRecordNotFound
	}
	return rows[0], nil
}

// ChannelStats combines three aggregations over a channel. Channels with no
// videos or likes produce no groups; those count as zero.
func (e *Engine) ChannelStats(ctx context.Context, channelID uuid.UUID) (out ChannelStats, err error) {
	ctx, span := e.start(ctx, "ChannelStats", attribute.String("channel.id", channelID.String()))
	defer func() { finish(span, err) }()

	db := e.db.WithContext(ctx)

	if err = db.Table("subscriptions").Where("channel_id = ?", channelID).Count(&out.TotalSubscribers).Error; err != nil {
		return out, err
	}

	var videoAgg []struct {
		TotalVideos int64
		TotalViews  int64
	}
	err = db.Table("videos").
		Select("COUNT(*) AS total_videos, CAST(COALESCE(SUM(views), 0) AS BIGINT) AS total_views").
		Where("owner_id = ?", channelID).
		Group("owner_id").
		Scan(&videoAgg).Error
	if err != nil {
		return out, err
	}

	var likeAgg []struct {
		TotalLikes int64
	}
	err = db.Table("likes").
		Select("COUNT(*) AS total_likes").
		Joins("JOIN videos ON videos.id = likes.target_id").
		Where("likes.target_type = ? AND videos.owner_id = ?", models.TargetVideo, channelID).
		Group("videos.owner_id").
		Scan(&likeAgg).Error
	if err != nil {
		return out, err
	}

	v := firstOrZero(videoAgg)
	out.TotalVideos = v.TotalVideos
	out.TotalViews = v.TotalViews
	out.TotalLikes = firstOrZero(likeAgg).TotalLikes
	return out, nil
}

const channelSummarySelect = "users.id, users.username, users.full_name, users.avatar, subscriptions.created_at AS subscribed_at, " +
	"(SELECT COUNT(*) FROM subscriptions s2 WHERE s2.channel_id = users.id) AS subscribers_count, " +
	"EXISTS (SELECT 1 FROM subscriptions s3 WHERE s3.channel_id = users.id AND s3.subscriber_id = ?) AS is_subscribed"

// Subscribers lists users following channelID. IsSubscribed tells whether
// viewerID follows each of them back.
func (e *Engine) Subscribers(ctx context.Context, channelID, viewerID uuid.UUID, p Page, s Sort) (out List[ChannelSummary], err error) {
	ctx, span := e.start(ctx, "Subscribers", attribute.String("channel.id", channelID.String()))
	defer func() { finish(span, err) }()

	base := e.db.WithContext(ctx).
		Table("subscriptions").
		Joins("JOIN users ON users.id = subscriptions.subscriber_id").
		Where("subscriptions.channel_id = ?", channelID)

	rows, total, err := list[ChannelSummary](base, OrderBy(s, SubscriptionSortFields, "subscriptions.id"), p, channelSummarySelect, viewerID)
	if err != nil {
		return out, err
	}
	return newList(rows, total, p), nil
}

// SubscribedChannels lists the channels subscriberID follows.
func (e *Engine) SubscribedChannels(ctx context.Context, subscriberID, viewerID uuid.UUID, p Page, s Sort) (out List[ChannelSummary], err error) {
	ctx, span := e.start(ctx, "SubscribedChannels", attribute.String("subscriber.id", subscriberID.String()))
	defer func() { finish(span, err) }()

	base := e.db.WithContext(ctx).
		Table("subscriptions").
		Joins("JOIN users ON users.id = subscriptions.channel_id").
		Where("subscriptions.subscriber_id = ?", subscriberID)

	rows, total, err := list[ChannelSummary](base, OrderBy(s, SubscriptionSortFields, "subscriptions.id"), p, channelSummarySelect, viewerID)
	if err != nil {
		return out, err
	}
	return newList(rows, total, p), nil
}
