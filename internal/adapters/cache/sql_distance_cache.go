package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"mdvrp-planner/internal/platform/obs"
	"mdvrp-planner/internal/ports"
)

// SQLDistanceCache keeps depot->customer road distances in Postgres.
// Keys are "lng,lat" strings as produced by domain.Coordinates.LngLat.
// Rows older than maxAge are ignored on read; cmd/dbtool purges them.
type SQLDistanceCache struct {
	db     *sql.DB
	maxAge time.Duration
}

// NewSQLDistanceCache wires the cache. maxAge <= 0 keeps rows forever.
func NewSQLDistanceCache(db *sql.DB, maxAge time.Duration) *SQLDistanceCache {
	return &SQLDistanceCache{db: db, maxAge: maxAge}
}

func (s *SQLDistanceCache) GetMany(
	ctx context.Context,
	origin string,
	destinations []string,
) (_ map[string]ports.DistanceResult, err error) {
	defer obs.Time(ctx, "distance.cache.sql.GetMany")(&err)

	if s.db == nil {
		return nil, errors.New("distance cache: db is nil")
	}
	if origin == "" {
		return nil, errors.New("get distance cache: origin must not be empty")
	}

	uniq := uniqueKeys(destinations)
	if len(uniq) == 0 {
		return map[string]ports.DistanceResult{}, nil
	}

	q := `
	SELECT destination, distance_meters
	FROM distance_cache
	WHERE origin = $1
		AND destination = ANY($2::text[])
		AND ($3::bigint = 0 OR fetched_at > now() - make_interval(secs => $3::bigint));
	`

	rows, err := s.db.QueryContext(ctx, q, origin, uniq, int64(s.maxAge/time.Second))
	if err != nil {
		return nil, fmt.Errorf("get distance cache: query: %w", err)
	}
	defer rows.Close()

	out := make(map[string]ports.DistanceResult, len(uniq))
	for rows.Next() {
		var dest string
		var meters float64
		if err := rows.Scan(&dest, &meters); err != nil {
			return nil, fmt.Errorf("get distance cache: scan: %w", err)
		}
		out[dest] = ports.DistanceResult{DistanceMeters: meters}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get distance cache: rows: %w", err)
	}

	return out, nil
}

// PutMany upserts one origin's row of the matrix in a single statement.
func (s *SQLDistanceCache) PutMany(
	ctx context.Context,
	origin string,
	results map[string]ports.DistanceResult,
) (err error) {
	defer obs.Time(ctx, "distance.cache.sql.PutMany")(&err)

	if s.db == nil {
		return errors.New("distance cache: db is nil")
	}
	if origin == "" {
		return errors.New("put distance cache: origin must not be empty")
	}
	if len(results) == 0 {
		return nil
	}

	dests := make([]string, 0, len(results))
	meters := make([]float64, 0, len(results))
	for dest, r := range results {
		if strings.TrimSpace(dest) == "" {
			return errors.New("put distance cache: empty destination key")
		}
		dests = append(dests, dest)
		meters = append(meters, r.DistanceMeters)
	}

	q := `
	INSERT INTO distance_cache (origin, destination, distance_meters)
	SELECT $1, d, m FROM unnest($2::text[], $3::float8[]) AS t(d, m)
	ON CONFLICT (origin, destination) DO UPDATE
	SET distance_meters = EXCLUDED.distance_meters,
		fetched_at = now();
	`

	if _, err := s.db.ExecContext(ctx, q, origin, dests, meters); err != nil {
		return fmt.Errorf("put distance cache origin=%q: %w", origin, err)
	}
	return nil
}

// uniqueKeys trims, drops blanks and de-duplicates while keeping order.
func uniqueKeys(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	uniq := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		uniq = append(uniq, k)
	}
	return uniq
}
