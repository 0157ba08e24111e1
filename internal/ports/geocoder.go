package ports

import (
	"context"
	"errors"
	"trip-wizard-service/internal/domain"
)

// Returned (wrapped) by Geocoder.Resolve for an id it cannot resolve.
var ErrPlaceNotFound = errors.New("place not found")

// An autocomplete suggestion for a partially typed address.
type PlacePrediction struct {
	ID            string `json:"id"`
	MainText      string `json:"mainText"`
	SecondaryText string `json:"secondaryText"`
}

// A fully resolved place.
type Place struct {
	ID               string             `json:"id"`
	FormattedAddress string             `json:"formattedAddress"`
	Coordinate       domain.Coordinates `json:"coordinate"`
}

// Contract for the address autocomplete/geocoding provider.
type Geocoder interface {
	// Return suggestions for a partially typed address.
	Predict(ctx context.Context, query string) ([]PlacePrediction, error)
	// Resolve a suggestion id into an address and coordinate.
	Resolve(ctx context.Context, id string) (Place, error)
}

// Persistent cache of resolved places keyed by place id.
type PlaceCache interface {
	GetMany(ctx context.Context, ids []string) (map[string]Place, error)
	PutMany(ctx context.Context, places map[string]Place) error
}
