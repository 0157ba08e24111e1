package services

import (
	"encoding/json"
	"fmt"
	"trip-wizard-service/internal/domain"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// RouteFeatures renders the geocoded points of set as a GeoJSON feature
// collection: one Point per geocoded route point and, when at least two
// points are geocoded, a LineString through them in route order. Round
// trips close the line back at the origin.
func RouteFeatures(set domain.AddressSet, direction domain.Direction) (*geojson.FeatureCollection, error) {
	fc := &geojson.FeatureCollection{Features: []*geojson.Feature{}}

	var line []geom.Coord
	for _, p := range set.Points() {
		if p.Coordinate == nil {
			continue
		}

		c := geom.Coord(p.Coordinate.CoordsToList())
		pt, err := geom.NewPoint(geom.XY).SetCoords(c)
		if err != nil {
			return nil, fmt.Errorf("route features: point %q: %w", p.ID, err)
		}

		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       p.ID,
			Geometry: pt,
			Properties: map[string]any{
				"role":    string(p.Role),
				"address": p.Address,
			},
		})
		line = append(line, c)
	}

	if direction == domain.RoundTrip && len(line) >= 2 &&
		set.From != nil && set.From.Coordinate != nil {
		line = append(line, geom.Coord(set.From.Coordinate.CoordsToList()))
	}

	if len(line) >= 2 {
		ls, err := geom.NewLineString(geom.XY).SetCoords(line)
		if err != nil {
			return nil, fmt.Errorf("route features: line: %w", err)
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         "route",
			Geometry:   ls,
			Properties: map[string]any{"direction": string(direction)},
		})
	}

	return fc, nil
}

// RouteGeoJSON is RouteFeatures encoded as JSON.
func RouteGeoJSON(set domain.AddressSet, direction domain.Direction) ([]byte, error) {
	fc, err := RouteFeatures(set, direction)
	if err != nil {
		return nil, err
	}

	b, err := json.Marshal(fc)
	if err != nil {
		return nil, fmt.Errorf("route geojson: encode: %w", err)
	}
	return b, nil
}
