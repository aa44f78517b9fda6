package sqlite

import (
	"context"
	"log/slog"
	"time"
)

// startDatabaseOptimizer periodically runs PRAGMA optimize to keep query
// plans efficient as the data changes shape over time.
// See https://www.sqlite.org/lang_analyze.html#periodically_run_pragma_optimize_.
func (db *Database) startDatabaseOptimizer(ctx context.Context) {
	// The first call uses 0x10002 to limit the scan time on startup.
	if _, err := db.ReadWrite.ExecContext(ctx, "PRAGMA optimize = 0x10002;"); err != nil {
		db.logger.LogAttrs(ctx, slog.LevelError, "initial database optimization failed",
			slog.String("error", err.Error()))
	}

	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := db.ReadWrite.ExecContext(ctx, "PRAGMA optimize;"); err != nil {
				db.logger.LogAttrs(ctx, slog.LevelError, "database optimization failed",
					slog.String("error", err.Error()))
			}
		}
	}
}
