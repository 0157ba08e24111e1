package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// PointRole is the position a RoutePoint occupies in a trip.
type PointRole string

const (
	RoleFrom PointRole = "from"
	RoleStop PointRole = "stop"
	RoleTo   PointRole = "to"
)

// MaxStops is the number of intermediate stops a trip may carry.
const MaxStops = 2

var ErrInvalidRoles = errors.New("invalid route point roles")

// A single point on a trip route. Coordinate is nil until the address
// has been geocoded.
type RoutePoint struct {
	ID         string       `json:"id"`
	Role       PointRole    `json:"role"`
	Address    string       `json:"address"`
	Coordinate *Coordinates `json:"coordinate,omitempty"`
}

// Two historical payload shapes exist: one carries the position under
// "coordinate", the other under "coordinates". Both decode into Coordinate.
type routePointPayload struct {
	ID          string       `json:"id"`
	Role        PointRole    `json:"role"`
	Address     string       `json:"address"`
	Coordinate  *Coordinates `json:"coordinate"`
	Coordinates *Coordinates `json:"coordinates"`
}

func (p *RoutePoint) UnmarshalJSON(b []byte) error {
	var raw routePointPayload
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("decode route point: %w", err)
	}

	*p = RoutePoint{
		ID:         raw.ID,
		Role:       raw.Role,
		Address:    raw.Address,
		Coordinate: resolveCoordinate(raw.Coordinate, raw.Coordinates),
	}
	return nil
}

// resolveCoordinate is the only place that knows about both field names.
// The canonical "coordinate" field wins when both are present.
func resolveCoordinate(coordinate, coordinates *Coordinates) *Coordinates {
	if coordinate != nil {
		return coordinate
	}
	return coordinates
}

// HasAddress reports whether the point carries non-blank address text.
func (p RoutePoint) HasAddress() bool {
	return !isBlank(p.Address)
}

// EnsureIDs returns a copy of points where every point without an id gets a
// fresh one. Existing ids are kept so clients can match their rows.
func EnsureIDs(points []RoutePoint) []RoutePoint {
	out := make([]RoutePoint, len(points))
	for i, p := range points {
		if isBlank(p.ID) {
			p.ID = uuid.NewString()
		}
		out[i] = p
	}
	return out
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }

// AddressData is the payload of the addresses page.
type AddressData struct {
	FamilyMemberID string       `json:"familyMemberId"`
	PackageType    string       `json:"packageType"`
	Addresses      []RoutePoint `json:"addresses"`
}

// AddressSet holds the route points in canonical order: from, stop*, to.
// Either endpoint may be absent while the user is still editing.
type AddressSet struct {
	From  *RoutePoint
	Stops []RoutePoint
	To    *RoutePoint
}

// NewAddressSet orders points canonically. The first "from", the first "to"
// and the first MaxStops stops win; anything else is ignored.
func NewAddressSet(points []RoutePoint) AddressSet {
	var set AddressSet
	for _, p := range points {
		switch p.Role {
		case RoleFrom:
			if set.From == nil {
				pt := p
				set.From = &pt
			}
		case RoleTo:
			if set.To == nil {
				pt := p
				set.To = &pt
			}
		case RoleStop:
			if len(set.Stops) < MaxStops {
				set.Stops = append(set.Stops, p)
			}
		}
	}
	return set
}

// Points returns the set as an ordered slice.
func (s AddressSet) Points() []RoutePoint {
	out := make([]RoutePoint, 0, len(s.Stops)+2)
	if s.From != nil {
		out = append(out, *s.From)
	}
	out = append(out, s.Stops...)
	if s.To != nil {
		out = append(out, *s.To)
	}
	return out
}

// CheckRoles enforces the route invariant: exactly one "from", exactly one
// "to" and at most MaxStops stops, with no unknown roles.
func CheckRoles(points []RoutePoint) error {
	from, to, err := countRoles(points)
	if err != nil {
		return err
	}

	if from != 1 {
		return fmt.Errorf("%w: want exactly one from point, got %d", ErrInvalidRoles, from)
	}
	if to != 1 {
		return fmt.Errorf("%w: want exactly one to point, got %d", ErrInvalidRoles, to)
	}
	return nil
}

// CheckRoleLimits is CheckRoles for a route still being edited: endpoints
// may be missing but never duplicated.
func CheckRoleLimits(points []RoutePoint) error {
	from, to, err := countRoles(points)
	if err != nil {
		return err
	}

	if from > 1 {
		return fmt.Errorf("%w: at most one from point allowed, got %d", ErrInvalidRoles, from)
	}
	if to > 1 {
		return fmt.Errorf("%w: at most one to point allowed, got %d", ErrInvalidRoles, to)
	}
	return nil
}

// countRoles counts endpoints and rejects unknown roles and excess stops.
func countRoles(points []RoutePoint) (from, to int, err error) {
	var stops int
	for i, p := range points {
		switch p.Role {
		case RoleFrom:
			from++
		case RoleTo:
			to++
		case RoleStop:
			stops++
		default:
			return 0, 0, fmt.Errorf("%w: point %d has role %q", ErrInvalidRoles, i+1, p.Role)
		}
	}

	if stops > MaxStops {
		return 0, 0, fmt.Errorf("%w: at most %d stops allowed, got %d", ErrInvalidRoles, MaxStops, stops)
	}
	return from, to, nil
}
