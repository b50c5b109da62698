package services

import (
	"context"
	"log/slog"

	"github.com/vidtube/backend/internal/media"
)

// discardAssets deletes stored assets, logging failures instead of
// returning them.
func discardAssets(ctx context.Context, store media.Store, ids ...string) {
	for _, id := range ids {
		if id == "" {
			continue
		}
		if err := store.Delete(ctx, id); err != nil {
			slog.Warn("asset delete failed, continuing", "asset_id", id, "error", err)
		}
	}
}
