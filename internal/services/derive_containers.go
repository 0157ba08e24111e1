package services

import (
	"fmt"
	"maps"
	"slices"
	"trip-wizard-service/internal/domain"
)

// DeriveContainers turns an address set and the schedule switches into the
// ordered legs of a route plan, annotated with times from slots.
//
// Legs follow the canonical point order: origin, up to two stops,
// destination, plus one return leg for round trips. Missing endpoints are
// skipped, never replaced by placeholders. Only origin, destination and
// return legs take a time directly; a stop inherits the time of the nearest
// preceding leg that has one, provided the stop and both its neighbours
// are geocoded.
//
// The function is pure: equal inputs always yield equal output.
func DeriveContainers(
	set domain.AddressSet,
	switches domain.ScheduleSwitches,
	slots map[int]string,
) []domain.ScheduleContainer {
	points := set.Points()

	n := len(points)
	if switches.Direction == domain.RoundTrip {
		n++
	}
	out := make([]domain.ScheduleContainer, 0, n)

	for i, p := range points {
		c := domain.ScheduleContainer{
			Index:      i,
			Role:       containerRole(p.Role),
			Address:    p.Address,
			Coordinate: p.Coordinate,
		}

		switch c.Role {
		case domain.ContainerOrigin:
			c.FromCoordinate = p.Coordinate
			c.ToCoordinate = coordinateAt(points, i+1)
		case domain.ContainerDestination:
			c.FromCoordinate = coordinateAt(points, i-1)
			c.ToCoordinate = p.Coordinate
		default:
			c.FromCoordinate = coordinateAt(points, i-1)
			c.ToCoordinate = coordinateAt(points, i+1)
		}

		out = append(out, c)
	}

	if switches.Direction == domain.RoundTrip {
		ret := domain.ScheduleContainer{
			Index: len(out),
			Role:  domain.ContainerReturn,
		}
		switch {
		case set.From != nil:
			ret.Address = set.From.Address
		case set.To != nil:
			ret.Address = set.To.Address
		}
		if set.To != nil {
			ret.FromCoordinate = set.To.Coordinate
		}
		if set.From != nil {
			ret.ToCoordinate = set.From.Coordinate
		}
		out = append(out, ret)
	}

	assignTimes(out, slots)
	return out
}

// assignTimes fills Editable, Time and IsCalculated in place.
func assignTimes(containers []domain.ScheduleContainer, slots map[int]string) {
	var inherited *string

	for i := range containers {
		c := &containers[i]
		c.Editable = c.Role.Editable()

		if c.Editable {
			if v, ok := slots[c.Index]; ok && v != "" {
				t := v
				c.Time = &t
				inherited = c.Time
			}
			continue
		}

		// Off-route stops stay undetermined until coordinates are supplied.
		if !c.OnRoute() || inherited == nil {
			continue
		}
		t := *inherited
		c.Time = &t
		c.IsCalculated = true
	}
}

func containerRole(r domain.PointRole) domain.ContainerRole {
	switch r {
	case domain.RoleFrom:
		return domain.ContainerOrigin
	case domain.RoleTo:
		return domain.ContainerDestination
	default:
		return domain.ContainerStop
	}
}

func coordinateAt(points []domain.RoutePoint, i int) *domain.Coordinates {
	if i < 0 || i >= len(points) {
		return nil
	}
	return points[i].Coordinate
}

// DeriveRoutePlan derives one container list per time bucket the schedule
// currently uses.
func DeriveRoutePlan(set domain.AddressSet, sched domain.ScheduleData) domain.RoutePlan {
	plan := domain.RoutePlan{Buckets: make(map[domain.TimeBucket][]domain.ScheduleContainer)}
	for _, b := range sched.ActiveBuckets() {
		plan.Buckets[b] = DeriveContainers(set, sched.Switches, sched.Times.Bucket(b))
	}
	return plan
}

// Messages reported by ValidateSchedule.
const (
	MsgSelectDays = "select at least one day"
)

// ValidateSchedule checks the schedule page. Every active bucket needs an
// origin time, and a return time for round trips; fixed cadence needs at
// least one selected day. Invalid switches are reported alone; otherwise
// all checks run and messages keep check order.
func ValidateSchedule(set domain.AddressSet, sched domain.ScheduleData) domain.ValidationResult {
	var errs []string

	if err := sched.Switches.Validate(); err != nil {
		errs = append(errs, err.Error())
		return domain.ValidationResult{IsValid: false, Errors: errs}
	}

	if sched.Switches.CadenceMode == domain.CadenceFixed && len(sched.SelectedDays) == 0 {
		errs = append(errs, MsgSelectDays)
	}

	buckets := sched.ActiveBuckets()
	for _, b := range buckets {
		slots := sched.Times.Bucket(b)
		for _, idx := range slices.Sorted(maps.Keys(slots)) {
			if _, err := domain.ParseClock(slots[idx]); err != nil {
				errs = append(errs, fmt.Sprintf("%s: slot %d: %v", b, idx, err))
			}
		}

		for _, c := range DeriveContainers(set, sched.Switches, slots) {
			if c.Role != domain.ContainerOrigin && c.Role != domain.ContainerReturn {
				continue
			}
			if c.Time == nil {
				errs = append(errs, missingTimeMessage(b, c.Role, len(buckets) > 1))
			}
		}
	}

	if errs == nil {
		errs = []string{}
	}
	return domain.ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

func missingTimeMessage(b domain.TimeBucket, role domain.ContainerRole, qualify bool) string {
	if qualify {
		return fmt.Sprintf("%s %s time is required", b, role)
	}
	return fmt.Sprintf("%s time is required", role)
}
