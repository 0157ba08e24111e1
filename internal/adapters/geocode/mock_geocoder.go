package geocode

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"trip-wizard-service/internal/ports"

	"github.com/agnivade/levenshtein"
)

// Typos tolerated by the fallback match on a place's main text.
const maxTypos = 2

// MockGeocoder answers from a fixed set of places. Predict matches the
// query case-insensitively against the formatted address and, when nothing
// contains it, falls back to main texts within maxTypos edits.
type MockGeocoder struct {
	m map[string]ports.Place
}

func NewMockGeocoder(places []ports.Place) *MockGeocoder {
	m := make(map[string]ports.Place, len(places))
	for _, p := range places {
		m[p.ID] = p
	}
	return &MockGeocoder{m: m}
}

func (g *MockGeocoder) Predict(ctx context.Context, query string) ([]ports.PlacePrediction, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []ports.PlacePrediction{}, nil
	}

	out := make([]ports.PlacePrediction, 0)
	var near []ports.PlacePrediction
	for _, p := range g.m {
		main, secondary, _ := strings.Cut(p.FormattedAddress, ", ")
		pred := ports.PlacePrediction{ID: p.ID, MainText: main, SecondaryText: secondary}

		if strings.Contains(strings.ToLower(p.FormattedAddress), q) {
			out = append(out, pred)
			continue
		}
		if levenshtein.ComputeDistance(q, strings.ToLower(main)) <= maxTypos {
			near = append(near, pred)
		}
	}
	if len(out) == 0 && near != nil {
		out = near
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (g *MockGeocoder) Resolve(ctx context.Context, id string) (ports.Place, error) {
	p, ok := g.m[id]
	if !ok {
		return ports.Place{}, fmt.Errorf("resolve %q: %w", id, ports.ErrPlaceNotFound)
	}
	return p, nil
}
