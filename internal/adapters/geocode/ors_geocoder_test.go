package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"trip-wizard-service/internal/adapters/cache"
	"trip-wizard-service/internal/ports"

	"github.com/stretchr/testify/require"
)

const autocompleteBody = `{
  "type": "FeatureCollection",
  "features": [
    {
      "geometry": {"type": "Point", "coordinates": [49.8920, 40.3777]},
      "properties": {"gid": "osm:1", "name": "Fountain Square", "label": "Fountain Square, Baku, Azerbaijan"}
    },
    {
      "geometry": {"type": "Point", "coordinates": [49.8671]},
      "properties": {"gid": "osm:2", "name": "Broken", "label": "Broken"}
    },
    {
      "geometry": {"type": "Point", "coordinates": [49.8671, 40.4093]},
      "properties": {"gid": "", "name": "No id", "label": "No id"}
    }
  ]
}`

func newTestORS(t *testing.T, h http.HandlerFunc) (*ORSGeocoder, *cache.MemoryPlaceCache) {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	places := cache.NewMemoryPlaceCache()
	g, err := NewORSGeocoder("test-key", "AZ", places)
	require.NoError(t, err)
	g.baseURL = srv.URL
	return g, places
}

func TestORSGeocoderPredictWarmsCache(t *testing.T) {
	requests := make(chan *http.Request, 1)
	g, places := newTestORS(t, func(w http.ResponseWriter, r *http.Request) {
		requests <- r.Clone(context.Background())
		w.Header().Set("Content-Type", "application/geo+json")
		_, _ = w.Write([]byte(autocompleteBody))
	})
	ctx := context.Background()

	preds, err := g.Predict(ctx, "  fountain   square ")
	require.NoError(t, err)

	seen := <-requests
	require.Equal(t, "/geocode/autocomplete", seen.URL.Path)
	require.Equal(t, "test-key", seen.Header.Get("Authorization"))
	require.Equal(t, "fountain square", seen.URL.Query().Get("text"))
	require.Equal(t, "AZ", seen.URL.Query().Get("boundary.country"))

	require.Len(t, preds, 1)
	require.Equal(t, ports.PlacePrediction{
		ID:            "osm:1",
		MainText:      "Fountain Square",
		SecondaryText: "Baku, Azerbaijan",
	}, preds[0])

	cached, err := places.GetMany(ctx, []string{"osm:1"})
	require.NoError(t, err)
	require.Contains(t, cached, "osm:1")

	p, err := g.Resolve(ctx, "osm:1")
	require.NoError(t, err)
	require.Equal(t, "Fountain Square, Baku, Azerbaijan", p.FormattedAddress)
	require.InDelta(t, 40.3777, p.Coordinate.Lat, 1e-9)
	require.InDelta(t, 49.8920, p.Coordinate.Lng, 1e-9)
}

func TestORSGeocoderResolveUnknown(t *testing.T) {
	var calls atomic.Int32
	g, _ := newTestORS(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	_, err := g.Resolve(context.Background(), "osm:404")
	require.True(t, errors.Is(err, ports.ErrPlaceNotFound))

	_, err = g.Resolve(context.Background(), " ")
	require.Error(t, err)
	require.Zero(t, calls.Load(), "resolve is served from the cache")
}

func TestORSGeocoderRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	g, _ := newTestORS(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(autocompleteBody))
	})

	preds, err := g.Predict(context.Background(), "fountain")
	require.NoError(t, err)
	require.Len(t, preds, 1)
	require.Equal(t, int32(2), calls.Load())
}

func TestORSGeocoderDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	g, _ := newTestORS(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad key", http.StatusForbidden)
	})

	_, err := g.Predict(context.Background(), "fountain")
	require.Error(t, err)

	var he *httpStatusError
	require.True(t, errors.As(err, &he))
	require.Equal(t, http.StatusForbidden, he.Code)
	require.Equal(t, int32(1), calls.Load())
}

func TestORSGeocoderEmptyQuery(t *testing.T) {
	var calls atomic.Int32
	g, _ := newTestORS(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	preds, err := g.Predict(context.Background(), "   ")
	require.NoError(t, err)
	require.Empty(t, preds)
	require.Zero(t, calls.Load())
}

func TestNewORSGeocoderRequiresKey(t *testing.T) {
	_, err := NewORSGeocoder("", "", cache.NewMemoryPlaceCache())
	require.Error(t, err)
}
