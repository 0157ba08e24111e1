package services

import (
	"math"
	"trip-wizard-service/internal/domain"
)

const (
	EarthRadiusKm    = 6371.0
	DefaultRatePerKm = 0.30
)

// Straight-line estimate for the confirmation page, rounded to cents.
type Quote struct {
	DistanceKm float64 `json:"distanceKm"`
	Price      float64 `json:"price"`
}

// PricingEstimator prices a trip by great-circle distance.
type PricingEstimator struct {
	RatePerKm float64
}

func NewPricingEstimator(ratePerKm float64) PricingEstimator {
	return PricingEstimator{RatePerKm: ratePerKm}
}

// HaversineKm returns the great-circle distance between a and b.
func HaversineKm(a, b domain.Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusKm * c
}

// Estimate prices the trip between from and to. A missing coordinate yields
// a zero quote: the draft is simply unpriced.
func (p PricingEstimator) Estimate(from, to *domain.Coordinates) Quote {
	if from == nil || to == nil {
		return Quote{}
	}

	km := HaversineKm(*from, *to)
	return Quote{
		DistanceKm: round2(km),
		Price:      round2(km * p.RatePerKm),
	}
}

// QuoteAddresses prices the trip between the first geocoded origin and the
// first geocoded destination in points.
func (p PricingEstimator) QuoteAddresses(points []domain.RoutePoint) Quote {
	return p.Estimate(firstGeocoded(points, domain.RoleFrom), firstGeocoded(points, domain.RoleTo))
}

func firstGeocoded(points []domain.RoutePoint, role domain.PointRole) *domain.Coordinates {
	for _, pt := range points {
		if pt.Role == role && pt.Coordinate != nil {
			return pt.Coordinate
		}
	}
	return nil
}

func round2(x float64) float64 { return math.Round(x*100) / 100 }
