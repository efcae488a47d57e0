package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultRetention keeps the activity trail for one year.
const DefaultRetention = 365 * 24 * time.Hour

// PruneActivity deletes activity entries older than the retention window.
func PruneActivity(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger, retention time.Duration) error {
	if pool == nil {
		return nil
	}
	if retention <= 0 {
		retention = DefaultRetention
	}
	cutoff := time.Now().UTC().Add(-retention)
	tag, err := pool.Exec(ctx, `DELETE FROM activity_logs WHERE created_at < $1`, cutoff)
	if err != nil {
		if logger != nil {
			logger.Error("activity retention prune", slog.Any("error", err))
		}
		return err
	}
	if logger != nil {
		logger.Info("pruned activity log",
			slog.Int64("deleted", tag.RowsAffected()),
			slog.Time("cutoff", cutoff))
	}
	return nil
}

// ActivityRetentionHandler binds the prune job to its dependencies.
func ActivityRetentionHandler(pool *pgxpool.Pool, logger *slog.Logger, retention time.Duration) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		return PruneActivity(ctx, pool, logger, retention)
	}
}
