package repositories

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"trip-wizard-service/internal/adapters/cache"
	"trip-wizard-service/internal/platform/db"

	"github.com/stretchr/testify/require"
)

func writeSeeds(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "places.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestInitSchemaIsRepeatable(t *testing.T) {
	conn, err := db.OpenSQLite(filepath.Join(t.TempDir(), "schema.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, InitSchema(conn))
	require.NoError(t, InitSchema(conn))

	for _, table := range []string{"kv_store", "place_cache", "order_drafts"} {
		var name string
		err := conn.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = $1;`, table).Scan(&name)
		require.NoError(t, err, table)
	}
}

func TestLoadPlaceSeeds(t *testing.T) {
	path := writeSeeds(t, `[
		{"place_id": "a", "formatted_address": " Fountain Square, Baku ", "lat": 40.3777, "lng": 49.8920}
	]`)

	places, err := LoadPlaceSeeds(path)
	require.NoError(t, err)
	require.Len(t, places, 1)
	require.Equal(t, "Fountain Square, Baku", places[0].FormattedAddress)
	require.InDelta(t, 40.3777, places[0].Coordinate.Lat, 1e-9)
}

func TestLoadPlaceSeedsRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"empty id":      `[{"place_id": "", "formatted_address": "x", "lat": 1, "lng": 1}]`,
		"empty address": `[{"place_id": "a", "formatted_address": "", "lat": 1, "lng": 1}]`,
		"bad latitude":  `[{"place_id": "a", "formatted_address": "x", "lat": 91, "lng": 1}]`,
		"not json":      `{`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadPlaceSeeds(writeSeeds(t, body))
			require.Error(t, err)
		})
	}
}

func TestLoadPlaceSeedsMissingFile(t *testing.T) {
	_, err := LoadPlaceSeeds(filepath.Join(t.TempDir(), "nope.json"))
	require.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestSeedFromJSON(t *testing.T) {
	path := writeSeeds(t, `[
		{"place_id": "a", "formatted_address": "Fountain Square, Baku", "lat": 40.3777, "lng": 49.8920},
		{"place_id": "b", "formatted_address": "Ganjlik Mall, Baku", "lat": 40.4093, "lng": 49.8671}
	]`)

	ctx := context.Background()
	places := cache.NewMemoryPlaceCache()
	require.NoError(t, SeedFromJSON(ctx, places, path))

	got, err := places.GetMany(ctx, []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, got, 2)
}
