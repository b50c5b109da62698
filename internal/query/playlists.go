package query

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

const playlistSummarySelect = "playlists.id, playlists.name, playlists.description, playlists.created_at, playlists.updated_at, " +
	"(SELECT COUNT(*) FROM playlist_videos pv WHERE pv.playlist_id = playlists.id) AS total_videos"

func (e *Engine) UserPlaylists(ctx context.Context, ownerID uuid.UUID, p Page, s Sort) (out List[PlaylistSummary], err error) {
	ctx, span := e.start(ctx, "UserPlaylists", attribute.String("user.id", ownerID.String()))
	defer func() { finish(span, err) }()

	base := e.db.WithContext(ctx).
		Table("playlists").
		Where("playlists.owner_id = ?", ownerID)

	rows, total, err := list[PlaylistSummary](base, OrderBy(s, PlaylistSortFields, "playlists.id"), p, playlistSummarySelect)
	if err != nil {
		return out, err
	}
	return newList(rows, total, p), nil
}

type playlistRow struct {
	ID          uuid.UUID
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	OwnerColumns
}

// PlaylistByID returns a playlist with its owner and its videos in playlist
// order. Unpublished videos are hidden unless viewerID owns them.
func (e *Engine) PlaylistByID(ctx context.Context, id, viewerID uuid.UUID) (out PlaylistDetail, err error) {
	ctx, span := e.start(ctx, "PlaylistByID", attribute.String("playlist.id", id.String()))
	defer func() { finish(span, err) }()

	db := e.db.WithContext(ctx)

	var heads []playlistRow
	err = db.Table("playlists").
		Select("playlists.id, playlists.name, playlists.description, playlists.created_at, playlists.updated_at, "+ownerSelect).
		Joins("JOIN users ON users.id = playlists.owner_id").
		Where("playlists.id = ?", id).
		Limit(1).
		Scan(&heads).Error
	if err != nil {
		return out, err
	}
	if len(heads) == 0 {
		return out, gorm.ErrRecordNotFound
	}

	var rows []videoRow
	err = db.Table("playlist_videos").
		Select(videoSelect).
		Joins("JOIN videos ON videos.id = playlist_videos.video_id").
		Joins("JOIN users ON users.id = videos.owner_id").
		Where("playlist_videos.playlist_id = ?", id).
		Where("(videos.is_published = ? OR videos.owner_id = ?)", true, viewerID).
		Order("playlist_videos.position ASC").
		Scan(&rows).Error
	if err != nil {
		return out, err
	}

	h := heads[0]
	out = PlaylistDetail{
		ID:          h.ID,
		Name:        h.Name,
		Description: h.Description,
		CreatedAt:   h.CreatedAt,
		UpdatedAt:   h.UpdatedAt,
		Owner:       h.owner(),
		Videos:      videoCards(rows),
		TotalVideos: int64(len(rows)),
	}
	for _, r := range rows {
		out.TotalViews += r.Views
	}
	return out, nil
}
