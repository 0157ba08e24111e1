package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"trip-wizard-service/internal/domain"
	"trip-wizard-service/internal/ports"
)

// Initialize the database schema. The statements run unchanged on sqlite
// and postgres.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createKVStoreQuery := `
	CREATE TABLE IF NOT EXISTS kv_store (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at_ms BIGINT NOT NULL
	);
	`

	createPlaceCacheQuery := `
	CREATE TABLE IF NOT EXISTS place_cache (
        place_id TEXT PRIMARY KEY,
        formatted_address TEXT NOT NULL,
        lat DOUBLE PRECISION NOT NULL,
        lng DOUBLE PRECISION NOT NULL
    );
	`

	createOrdersQuery := `
	CREATE TABLE IF NOT EXISTS order_drafts (
        order_id TEXT PRIMARY KEY,
        wizard_kind TEXT NOT NULL,
        status TEXT NOT NULL,
        payload TEXT NOT NULL,
        created_at_ms BIGINT NOT NULL
    );
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_order_drafts_kind_created
    ON order_drafts(wizard_kind, created_at_ms);
	`

	statements := []string{
		createKVStoreQuery,
		createPlaceCacheQuery,
		createOrdersQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type PlaceSeed struct {
	PlaceID          string  `json:"place_id"`
	FormattedAddress string  `json:"formatted_address"`
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
}

// LoadPlaceSeeds reads known places from a JSON file.
func LoadPlaceSeeds(jsonPath string) ([]ports.Place, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("seed places: read %q: %w", jsonPath, err)
	}

	var data []PlaceSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("seed places: parse json: %w", err)
	}

	places := make([]ports.Place, 0, len(data))
	for i, item := range data {
		id := strings.TrimSpace(item.PlaceID)
		if id == "" {
			return nil, fmt.Errorf("seed places: item at index %d: place_id cannot be empty", i+1)
		}

		addr := strings.TrimSpace(item.FormattedAddress)
		if addr == "" {
			return nil, fmt.Errorf("seed places: item %q: formatted_address cannot be empty", id)
		}

		if item.Lat < -90 || item.Lat > 90 || item.Lng < -180 || item.Lng > 180 {
			return nil, fmt.Errorf("seed places: item %q: coordinate out of range", id)
		}

		places = append(places, ports.Place{
			ID:               id,
			FormattedAddress: addr,
			Coordinate:       domain.Coordinates{Lat: item.Lat, Lng: item.Lng},
		})
	}

	return places, nil
}

// Populate the place cache with known places from a JSON file.
func SeedFromJSON(ctx context.Context, cache ports.PlaceCache, jsonPath string) error {
	places, err := LoadPlaceSeeds(jsonPath)
	if err != nil {
		return err
	}

	byID := make(map[string]ports.Place, len(places))
	for _, p := range places {
		byID[p.ID] = p
	}

	if err := cache.PutMany(ctx, byID); err != nil {
		return fmt.Errorf("seed places: %w", err)
	}

	return nil
}
