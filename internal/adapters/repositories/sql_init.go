package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// InitSchema creates the Postgres tables backing the distance cache.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createDistanceCacheQuery := `
	CREATE TABLE IF NOT EXISTS distance_cache (
        origin TEXT NOT NULL,
        destination TEXT NOT NULL,
        distance_meters DOUBLE PRECISION NOT NULL,
        fetched_at TIMESTAMPTZ NOT NULL DEFAULT now(),
        PRIMARY KEY (origin, destination)
    );
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_distance_cache_destination_origin
    ON distance_cache(destination, origin);
	`

	statements := []string{
		createDistanceCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// PurgeDistanceCache drops cached rows fetched before the given age, in days.
func PurgeDistanceCache(ctx context.Context, db *sql.DB, olderThanDays int) (int64, error) {
	if db == nil {
		return 0, errors.New("purge distance cache: DB is nil")
	}
	if olderThanDays < 0 {
		return 0, fmt.Errorf("purge distance cache: invalid age %d", olderThanDays)
	}

	res, err := db.ExecContext(ctx,
		`DELETE FROM distance_cache WHERE fetched_at < now() - make_interval(days => $1)`,
		olderThanDays,
	)
	if err != nil {
		return 0, fmt.Errorf("purge distance cache: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge distance cache: rows affected: %w", err)
	}
	return n, nil
}
