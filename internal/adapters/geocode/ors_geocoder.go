package geocode

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"trip-wizard-service/internal/platform/obs"
	"trip-wizard-service/internal/ports"

	"github.com/sirupsen/logrus"
)

// ORSGeocoder implements Geocoder using the OpenRouteService autocomplete API.
//
// Autocomplete features already carry their coordinates, so Predict stores
// every suggestion in the place cache and Resolve is answered from it.
// The geocoder is safe for concurrent use.
type ORSGeocoder struct {
	session *http.Client
	apiKey  string
	baseURL string
	country string
	places  ports.PlaceCache
}

func NewORSGeocoder(apiKey string, country string, places ports.PlaceCache) (*ORSGeocoder, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}
	if places == nil {
		return nil, errors.New("ORS geocoder: place cache is nil")
	}

	return &ORSGeocoder{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: "https://api.openrouteservice.org",
		country: country,
		places:  places,
	}, nil
}

// normalize collapses whitespace so equal queries hit the same request.
func (o *ORSGeocoder) normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func (o *ORSGeocoder) Predict(ctx context.Context, query string) (_ []ports.PlacePrediction, err error) {
	defer obs.Time(ctx, "ors.Predict")(&err)

	q := o.normalize(query)
	if q == "" {
		return []ports.PlacePrediction{}, nil
	}

	places, err := o.autocomplete(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("predict %q: %w", q, err)
	}

	fresh := make(map[string]ports.Place, len(places))
	out := make([]ports.PlacePrediction, 0, len(places))
	for _, p := range places {
		fresh[p.place.ID] = p.place
		out = append(out, p.prediction)
	}

	if err := o.places.PutMany(ctx, fresh); err != nil {
		logrus.WithError(err).Warn("place cache write failed")
	}

	return out, nil
}

func (o *ORSGeocoder) Resolve(ctx context.Context, id string) (_ ports.Place, err error) {
	defer obs.Time(ctx, "ors.Resolve")(&err)

	id = strings.TrimSpace(id)
	if id == "" {
		return ports.Place{}, errors.New("resolve: place id must be non-empty")
	}

	hits, err := o.places.GetMany(ctx, []string{id})
	if err != nil {
		return ports.Place{}, fmt.Errorf("resolve %q: place cache: %w", id, err)
	}

	p, ok := hits[id]
	if !ok {
		return ports.Place{}, fmt.Errorf("resolve %q: %w", id, ports.ErrPlaceNotFound)
	}
	return p, nil
}
