package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"trip-wizard-service/internal/domain"
	"trip-wizard-service/internal/platform/obs"
	"trip-wizard-service/internal/ports"
)

// SQLPlaceCache is a SQL-backed cache mapping place ids to resolved places.
// The statements are valid for both postgres (pgx) and sqlite.
type SQLPlaceCache struct {
	DB *sql.DB
}

func NewSQLPlaceCache(db *sql.DB) *SQLPlaceCache {
	return &SQLPlaceCache{DB: db}
}

// Fetch cached places for the given ids.
func (s *SQLPlaceCache) GetMany(
	ctx context.Context,
	ids []string,
) (_ map[string]ports.Place, err error) {
	defer obs.Time(ctx, "place.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("place cache: db is nil")
	}

	if len(ids) == 0 {
		return map[string]ports.Place{}, nil
	}

	seen := map[string]struct{}{}
	uniq := make([]string, 0, len(ids))
	ph := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}

		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
		ph = append(ph, fmt.Sprintf("$%d", len(uniq)))
	}

	if len(uniq) == 0 {
		return map[string]ports.Place{}, nil
	}

	args := make([]any, 0, len(uniq))
	for _, id := range uniq {
		args = append(args, id)
	}

	// Only the placeholder structure is interpolated; all values remain parameterized.
	q := fmt.Sprintf(`
	SELECT 
        place_id,
        formatted_address,
        lat,
        lng
    FROM place_cache
    WHERE place_id IN (%s);
	`, strings.Join(ph, ","))

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("get place cache: query place_cache table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]ports.Place, len(uniq))
	for rows.Next() {
		var id, addr string
		var lat, lng float64
		if err := rows.Scan(&id, &addr, &lat, &lng); err != nil {
			return nil, fmt.Errorf("get place cache: scan rows: %w", err)
		}
		out[id] = ports.Place{
			ID:               id,
			FormattedAddress: addr,
			Coordinate:       domain.Coordinates{Lat: lat, Lng: lng},
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get place cache: row iteration: %w", err)
	}

	return out, nil
}

// Store id -> place mappings in the cache.
func (s *SQLPlaceCache) PutMany(ctx context.Context, places map[string]ports.Place) error {
	if s.DB == nil {
		return errors.New("place cache: db is nil")
	}

	if len(places) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert place cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO place_cache (place_id, formatted_address, lat, lng)
    VALUES ($1, $2, $3, $4)
	ON CONFLICT (place_id) DO UPDATE
	SET formatted_address = EXCLUDED.formatted_address,
		lat = EXCLUDED.lat,
		lng = EXCLUDED.lng;
	`)
	if err != nil {
		return fmt.Errorf("insert place cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for id, p := range places {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("insert place cache: empty place id key")
		}

		if _, err := stmt.ExecContext(ctx, id, p.FormattedAddress, p.Coordinate.Lat, p.Coordinate.Lng); err != nil {
			return fmt.Errorf("insert place cache id=%q: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert place cache commit: %w", err)
	}

	return nil
}
