package domain

// ContainerRole is the leg of the trip a ScheduleContainer represents.
type ContainerRole string

const (
	ContainerOrigin      ContainerRole = "origin"
	ContainerStop        ContainerRole = "stop"
	ContainerDestination ContainerRole = "destination"
	ContainerReturn      ContainerRole = "return"
)

// Editable reports whether the user may enter a time for this role directly.
func (r ContainerRole) Editable() bool {
	return r == ContainerOrigin || r == ContainerDestination || r == ContainerReturn
}

// A derived, time-annotated leg of a route plan.
//
// Time is nil while the leg's time is undetermined: nothing has been
// entered or inherited yet, or the leg is a stop that is not on route.
type ScheduleContainer struct {
	Index          int           `json:"index"`
	Role           ContainerRole `json:"role"`
	Address        string        `json:"address"`
	Coordinate     *Coordinates  `json:"coordinate,omitempty"`
	FromCoordinate *Coordinates  `json:"fromCoordinate,omitempty"`
	ToCoordinate   *Coordinates  `json:"toCoordinate,omitempty"`
	Editable       bool          `json:"editable"`
	Time           *string       `json:"time"`
	IsCalculated   bool          `json:"isCalculated"`
}

// OnRoute reports whether both ends of the leg are geocoded. A stop runs
// prev -> stop -> next, so its own coordinate is needed as well.
func (c ScheduleContainer) OnRoute() bool {
	if c.Role == ContainerStop && c.Coordinate == nil {
		return false
	}
	return c.FromCoordinate != nil && c.ToCoordinate != nil
}

// The containers derived for each active time bucket of a schedule.
type RoutePlan struct {
	Buckets map[TimeBucket][]ScheduleContainer `json:"buckets"`
}
