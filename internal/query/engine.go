package query

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

const tracerName = "github.com/vidtube/backend/internal/query"

// Sortable columns per result kind.
var (
	VideoSortFields = map[string]string{
		"createdAt": "videos.created_at",
		"views":     "videos.views",
		"duration":  "videos.duration",
		"title":     "videos.title",
	}
	LikeSortFields = map[string]string{
		"createdAt": "likes.created_at",
	}
	CommentSortFields = map[string]string{
		"createdAt": "comments.created_at",
	}
	TweetSortFields = map[string]string{
		"createdAt": "tweets.created_at",
	}
	PlaylistSortFields = map[string]string{
		"createdAt": "playlists.created_at",
		"name":      "playlists.name",
	}
	SubscriptionSortFields = map[string]string{
		"createdAt": "subscriptions.created_at",
	}
)

// Engine runs read pipelines. A zero-row entity lookup returns
// gorm.ErrRecordNotFound; list pipelines return an empty List.
type Engine struct {
	db     *gorm.DB
	tracer trace.Tracer
}

type Option func(*Engine)

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(e *Engine) { e.tracer = tp.Tracer(tracerName) }
}

func New(db *gorm.DB, opts ...Option) *Engine {
	e := &Engine{db: db, tracer: otel.Tracer(tracerName)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return e.tracer.Start(ctx, "query."+name, trace.WithAttributes(attrs...))
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// list counts the matched rows, then selects one sorted page of them.
func list[R any](base *gorm.DB, order func(*gorm.DB) *gorm.DB, p Page, sel string, selArgs ...interface{}) ([]R, int64, error) {
	base = base.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 || p.Offset() >= int(total) {
		return nil, total, nil
	}

	var rows []R
	if err := base.Select(sel, selArgs...).Scopes(order, Paginate(p)).Scan(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// likesCountSelect and isLikedSelect project reaction counts for a row;
// isLikedSelect takes the viewer id as its argument.
func likesCountSelect(kind string, idColumn string) string {
	return "(SELECT COUNT(*) FROM likes lc WHERE lc.target_type = '" + kind + "' AND lc.target_id = " + idColumn + ") AS likes_count"
}

func isLikedSelect(kind string, idColumn string) string {
	return "EXISTS (SELECT 1 FROM likes li WHERE li.target_type = '" + kind + "' AND li.target_id = " + idColumn + " AND li.liked_by_id = ?) AS is_liked"
}
