package db

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// StartPlantCacheCleaner periodically deletes cached plants that nobody likes
// and that have not been synced within retention.
func StartPlantCacheCleaner(
	ctx context.Context,
	db *sql.DB,
	interval time.Duration,
	retention time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cutoff := time.Now().Add(-retention)
				res, err := db.ExecContext(ctx, `
                    DELETE FROM plants
                     WHERE synced_at < $1
                       AND NOT EXISTS (SELECT 1 FROM plant_likes WHERE plant_likes.plant_id = plants.id)
                `, cutoff)
				if err != nil {
					log.Error("failed to clean stale plants", zap.Error(err))
					continue
				}
				if rows, _ := res.RowsAffected(); rows > 0 {
					log.Info("cleaned stale plants", zap.Int64("removed", rows))
				}
			}
		}
	}()
}
