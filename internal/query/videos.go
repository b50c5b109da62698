package query

import (
	"context"

	"github.com/google/uuid"
	"github.com/vidtube/backend/internal/models"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

// VideoFilter narrows a video search. Unpublished videos are only visible
// to their owner.
type VideoFilter struct {
	Query    string
	OwnerID  uuid.UUID
	ViewerID uuid.UUID
}

func (e *Engine) videos(ctx context.Context) *gorm.DB {
	return e.db.WithContext(ctx).
		Table("videos").
		Joins("JOIN users ON users.id = videos.owner_id")
}

// SearchVideos matches title or description against a case-insensitive
// substring, optionally restricted to one owner.
func (e *Engine) SearchVideos(ctx context.Context, f VideoFilter, p Page, s Sort) (out List[VideoCard], err error) {
	ctx, span := e.start(ctx, "SearchVideos",
		attribute.String("query.text", f.Query),
		attribute.String("query.owner", f.OwnerID.String()),
		attribute.Int("query.page", p.Number),
	)
	defer func() { finish(span, err) }()

	base := e.videos(ctx).
		Where("(videos.is_published = ? OR videos.owner_id = ?)", true, f.ViewerID)
	if f.Query != "" {
		titleCond, pattern := ContainsFold("videos.title", f.Query)
		descCond, _ := ContainsFold("videos.description", f.Query)
		base = base.Where("("+titleCond+" OR "+descCond+")", pattern, pattern)
	}
	if f.OwnerID != uuid.Nil {
		base = base.Where("videos.owner_id = ?", f.OwnerID)
	}

	rows, total, err := list[videoRow](base, OrderBy(s, VideoSortFields, "videos.id"), p, videoSelect)
	if err != nil {
		return out, err
	}
	return newList(videoCards(rows), total, p), nil
}

// VideoByID returns the video with its owner regardless of publication state.
func (e *Engine) VideoByID(ctx context.Context, id uuid.UUID) (out VideoCard, err error) {
	ctx, span := e.start(ctx, "VideoByID", attribute.String("video.id", id.String()))
	defer func() { finish(span, err) }()

	var rows []videoRow
	if err = e.videos(ctx).Select(videoSelect).Where("videos.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return out, err
	}
	if len(rows) == 0 {
		return out, gorm.ErrRecordNotFound
	}
	return rows[0].card(), nil
}

// WatchHistory lists watched videos in the order they were first watched.
func (e *Engine) WatchHistory(ctx context.Context, userID uuid.UUID, p Page) (out List[VideoCard], err error) {
	ctx, span := e.start(ctx, "WatchHistory", attribute.String("user.id", userID.String()))
	defer func() { finish(span, err) }()

	base := e.db.WithContext(ctx).
		Table("watch_history_entries").
		Joins("JOIN videos ON videos.id = watch_history_entries.video_id").
		Joins("JOIN users ON users.id = videos.owner_id").
		Where("watch_history_entries.user_id = ?", userID).
		Where("(videos.is_published = ? OR videos.owner_id = ?)", true, userID)

	byPosition := func(db *gorm.DB) *gorm.DB {
		return db.Order("watch_history_entries.position ASC").Order("watch_history_entries.id ASC")
	}

	rows, total, err := list[videoRow](base, byPosition, p, videoSelect)
	if err != nil {
		return out, err
	}
	return newList(videoCards(rows), total, p), nil
}

// LikedVideos lists videos liked by userID; each like is replaced by the
// video it points at.
func (e *Engine) LikedVideos(ctx context.Context, userID uuid.UUID, p Page, s Sort) (out List[VideoCard], err error) {
	ctx, span := e.start(ctx, "LikedVideos", attribute.String("user.id", userID.String()))
	defer func() { finish(span, err) }()

	base := e.db.WithContext(ctx).
		Table("likes").
		Joins("JOIN videos ON videos.id = likes.target_id").
		Joins("JOIN users ON users.id = videos.owner_id").
		Where("likes.target_type = ? AND likes.liked_by_id = ?", models.TargetVideo, userID).
		Where("(videos.is_published = ? OR videos.owner_id = ?)", true, userID)

	rows, total, err := list[videoRow](base, OrderBy(s, LikeSortFields, "likes.id"), p, videoSelect)
	if err != nil {
		return out, err
	}
	return newList(videoCards(rows), total, p), nil
}
