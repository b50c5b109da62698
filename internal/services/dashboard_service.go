package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/vidtube/backend/internal/query"
	"gorm.io/gorm"
)

type DashboardService struct {
	db     *gorm.DB
	engine *query.Engine
}

func NewDashboardService(db *gorm.DB, engine *query.Engine) *DashboardService {
	return &DashboardService{db: db, engine: engine}
}

func (s *DashboardService) Stats(ctx context.Context, channelID uuid.UUID) (query.ChannelStats, error) {
	return s.engine.ChannelStats(ctx, channelID)
}

// Videos lists a channel's videos; unpublished ones only when the viewer
// owns the channel.
func (s *DashboardService) Videos(ctx context.Context, channelID, viewerID uuid.UUID, p query.Page, sort query.Sort) (query.List[query.VideoCard], error) {
	if err := ensureUser(ctx, s.db, channelID); err != nil {
		return query.List[query.VideoCard]{}, err
	}
	return s.engine.SearchVideos(ctx, query.VideoFilter{OwnerID: channelID, ViewerID: viewerID}, p, sort)
}
