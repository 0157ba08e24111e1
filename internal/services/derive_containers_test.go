package services

import (
	"reflect"
	"slices"
	"testing"
	"trip-wizard-service/internal/domain"
)

func coord(lat, lng float64) *domain.Coordinates {
	return &domain.Coordinates{Lat: lat, Lng: lng}
}

func point(id string, role domain.PointRole, c *domain.Coordinates) domain.RoutePoint {
	return domain.RoutePoint{ID: id, Role: role, Address: id + " street", Coordinate: c}
}

func switches(d domain.Direction) domain.ScheduleSwitches {
	s := domain.DefaultSwitches()
	s.Direction = d
	return s
}

func TestDeriveContainersRoundTripWithStops(t *testing.T) {
	set := domain.NewAddressSet([]domain.RoutePoint{
		point("from", domain.RoleFrom, coord(1, 1)),
		point("s1", domain.RoleStop, coord(2, 2)),
		point("s2", domain.RoleStop, coord(3, 3)),
		point("to", domain.RoleTo, coord(4, 4)),
	})
	slots := map[int]string{0: "08:00", 3: "09:00", 4: "17:00"}

	got := DeriveContainers(set, switches(domain.RoundTrip), slots)

	if len(got) != 5 {
		t.Fatalf("expected 5 containers, got %d", len(got))
	}

	roles := []domain.ContainerRole{
		domain.ContainerOrigin,
		domain.ContainerStop,
		domain.ContainerStop,
		domain.ContainerDestination,
		domain.ContainerReturn,
	}
	for i, c := range got {
		if c.Index != i {
			t.Fatalf("container %d: unexpected index %d", i, c.Index)
		}
		if c.Role != roles[i] {
			t.Fatalf("container %d: expected role %s, got %s", i, roles[i], c.Role)
		}
		if c.Editable != c.Role.Editable() {
			t.Fatalf("container %d: editable mismatch", i)
		}
	}

	// stops inherit the origin time
	for _, i := range []int{1, 2} {
		if got[i].Time == nil || *got[i].Time != "08:00" || !got[i].IsCalculated {
			t.Fatalf("stop %d: expected calculated 08:00, got %+v", i, got[i])
		}
	}
	if *got[3].Time != "09:00" || got[3].IsCalculated {
		t.Fatalf("destination: unexpected %+v", got[3])
	}

	ret := got[4]
	if ret.Time == nil || *ret.Time != "17:00" {
		t.Fatalf("return: expected 17:00, got %+v", ret)
	}
	if ret.Address != "from street" {
		t.Fatalf("return: expected origin address, got %q", ret.Address)
	}
	if *ret.FromCoordinate != *coord(4, 4) || *ret.ToCoordinate != *coord(1, 1) {
		t.Fatalf("return: expected to -> from, got %+v -> %+v", ret.FromCoordinate, ret.ToCoordinate)
	}

	if *got[0].FromCoordinate != *coord(1, 1) || *got[0].ToCoordinate != *coord(2, 2) {
		t.Fatalf("origin: unexpected coordinates")
	}
	if *got[3].FromCoordinate != *coord(3, 3) || *got[3].ToCoordinate != *coord(4, 4) {
		t.Fatalf("destination: unexpected coordinates")
	}
}

func TestDeriveContainersLength(t *testing.T) {
	points := []domain.RoutePoint{
		point("from", domain.RoleFrom, coord(1, 1)),
		point("s1", domain.RoleStop, nil),
		point("to", domain.RoleTo, coord(2, 2)),
	}
	set := domain.NewAddressSet(points)

	if n := len(DeriveContainers(set, switches(domain.OneWay), nil)); n != 3 {
		t.Fatalf("one way: expected 3, got %d", n)
	}
	if n := len(DeriveContainers(set, switches(domain.RoundTrip), nil)); n != 4 {
		t.Fatalf("round trip: expected 4, got %d", n)
	}
	if n := len(DeriveContainers(domain.AddressSet{}, switches(domain.OneWay), nil)); n != 0 {
		t.Fatalf("empty: expected 0, got %d", n)
	}
}

func TestDeriveContainersIsDeterministic(t *testing.T) {
	set := domain.NewAddressSet([]domain.RoutePoint{
		point("from", domain.RoleFrom, coord(1, 1)),
		point("s1", domain.RoleStop, coord(2, 2)),
		point("to", domain.RoleTo, coord(3, 3)),
	})
	slots := map[int]string{0: "07:15", 2: "08:00", 3: "18:00"}

	a := DeriveContainers(set, switches(domain.RoundTrip), slots)
	b := DeriveContainers(set, switches(domain.RoundTrip), slots)

	if !reflect.DeepEqual(a, b) {
		t.Fatalf("expected identical output:\n%+v\n%+v", a, b)
	}
}

func TestDeriveContainersStopsIgnoreTheirOwnSlot(t *testing.T) {
	set := domain.NewAddressSet([]domain.RoutePoint{
		point("from", domain.RoleFrom, coord(1, 1)),
		point("s1", domain.RoleStop, coord(2, 2)),
		point("to", domain.RoleTo, coord(3, 3)),
	})

	got := DeriveContainers(set, switches(domain.OneWay), map[int]string{1: "10:00"})

	if got[1].Time != nil {
		t.Fatalf("stop without a timed predecessor must stay undetermined, got %q", *got[1].Time)
	}
}

func TestDeriveContainersOffRouteStop(t *testing.T) {
	// s1 has no coordinate: it is off route, and so is s2 whose
	// predecessor is s1.
	set := domain.NewAddressSet([]domain.RoutePoint{
		point("from", domain.RoleFrom, coord(1, 1)),
		point("s1", domain.RoleStop, nil),
		point("s2", domain.RoleStop, coord(3, 3)),
		point("to", domain.RoleTo, coord(4, 4)),
	})

	got := DeriveContainers(set, switches(domain.OneWay), map[int]string{0: "08:00"})

	for _, i := range []int{1, 2} {
		if got[i].OnRoute() {
			t.Fatalf("stop %d must be off route", i)
		}
		if got[i].Time != nil || got[i].IsCalculated {
			t.Fatalf("stop %d must stay undetermined, got %+v", i, got[i])
		}
	}
}

func TestDeriveContainersUngeocodedStopStaysUndetermined(t *testing.T) {
	set := domain.NewAddressSet([]domain.RoutePoint{
		point("from", domain.RoleFrom, coord(1, 1)),
		point("s1", domain.RoleStop, nil),
		point("to", domain.RoleTo, coord(4, 4)),
	})
	slots := map[int]string{0: "08:00"}

	got := DeriveContainers(set, switches(domain.OneWay), slots)
	if got[1].Time != nil || got[1].IsCalculated {
		t.Fatalf("stop without coordinates must stay undetermined, got %+v", got[1])
	}

	// once geocoded the stop joins the route and inherits
	set.Stops[0].Coordinate = coord(2, 2)
	got = DeriveContainers(set, switches(domain.OneWay), slots)
	if !got[1].OnRoute() || got[1].Time == nil || *got[1].Time != "08:00" || !got[1].IsCalculated {
		t.Fatalf("geocoded stop must inherit 08:00, got %+v", got[1])
	}
	if *got[1].Coordinate != *coord(2, 2) {
		t.Fatalf("stop must carry its own coordinate, got %+v", got[1].Coordinate)
	}
}

func TestDeriveContainersMissingOrigin(t *testing.T) {
	set := domain.NewAddressSet([]domain.RoutePoint{
		point("s1", domain.RoleStop, coord(2, 2)),
		point("to", domain.RoleTo, coord(3, 3)),
	})

	got := DeriveContainers(set, switches(domain.RoundTrip), map[int]string{1: "09:00"})

	if len(got) != 3 {
		t.Fatalf("expected 3 containers, got %d", len(got))
	}
	if got[0].Role != domain.ContainerStop || got[0].FromCoordinate != nil {
		t.Fatalf("first container must be an unanchored stop, got %+v", got[0])
	}
	if got[2].Address != "to street" {
		t.Fatalf("return address falls back to destination, got %q", got[2].Address)
	}
	if got[2].ToCoordinate != nil {
		t.Fatalf("return has nowhere to go without an origin")
	}
}

func TestDeriveRoutePlanBuckets(t *testing.T) {
	set := domain.NewAddressSet([]domain.RoutePoint{
		point("from", domain.RoleFrom, coord(1, 1)),
		point("to", domain.RoleTo, coord(2, 2)),
	})

	sched := domain.NewScheduleData()
	sched.Switches.DayMode = domain.DayWeekdaySplit
	sched.Times.Weekday = map[int]string{0: "08:00"}
	sched.Times.Weekend = map[int]string{0: "10:00"}

	plan := DeriveRoutePlan(set, sched)

	if len(plan.Buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(plan.Buckets))
	}
	if *plan.Buckets[domain.BucketWeekday][0].Time != "08:00" {
		t.Fatalf("weekday: unexpected time")
	}
	if *plan.Buckets[domain.BucketWeekend][0].Time != "10:00" {
		t.Fatalf("weekend: unexpected time")
	}
}

func TestValidateSchedule(t *testing.T) {
	set := domain.NewAddressSet([]domain.RoutePoint{
		point("from", domain.RoleFrom, coord(1, 1)),
		point("to", domain.RoleTo, coord(2, 2)),
	})

	sched := domain.NewScheduleData()
	res := ValidateSchedule(set, sched)
	if want := []string{MsgSelectDays, "origin time is required"}; !slices.Equal(res.Errors, want) {
		t.Fatalf("expected %q, got %q", want, res.Errors)
	}

	sched.SelectedDays = []domain.Weekday{domain.Monday}
	sched.Times.Fixed = map[int]string{0: "08:00"}
	if res := ValidateSchedule(set, sched); !res.IsValid {
		t.Fatalf("expected valid, got %q", res.Errors)
	}

	sched.Switches.Direction = domain.RoundTrip
	if res := ValidateSchedule(set, sched); !slices.Equal(res.Errors, []string{"return time is required"}) {
		t.Fatalf("unexpected errors %q", res.Errors)
	}

	split := domain.NewScheduleData()
	split.Switches.DayMode = domain.DayWeekdaySplit
	split.SelectedDays = []domain.Weekday{domain.Saturday}
	split.Times.Weekday = map[int]string{0: "08:00"}
	want := []string{"weekend origin time is required"}
	if res := ValidateSchedule(set, split); !slices.Equal(res.Errors, want) {
		t.Fatalf("expected %q, got %q", want, res.Errors)
	}
}

func TestValidateScheduleSmoothCadenceNeedsNoDays(t *testing.T) {
	set := domain.NewAddressSet([]domain.RoutePoint{
		point("from", domain.RoleFrom, coord(1, 1)),
		point("to", domain.RoleTo, coord(2, 2)),
	})

	sched := domain.NewScheduleData()
	sched.Switches.CadenceMode = domain.CadenceSmooth
	sched.Times.Fixed = map[int]string{0: "08:00"}

	if res := ValidateSchedule(set, sched); !res.IsValid {
		t.Fatalf("expected valid, got %q", res.Errors)
	}
}

func TestValidateScheduleInvalidSwitchesReportedAlone(t *testing.T) {
	set := domain.NewAddressSet([]domain.RoutePoint{
		point("from", domain.RoleFrom, coord(1, 1)),
		point("to", domain.RoleTo, coord(2, 2)),
	})

	sched := domain.NewScheduleData()
	sched.Switches.Direction = "sideways"

	res := ValidateSchedule(set, sched)
	if res.IsValid || len(res.Errors) != 1 {
		t.Fatalf("expected only the switch error, got %q", res.Errors)
	}
	if want := `unknown direction "sideways"`; res.Errors[0] != want {
		t.Fatalf("expected %q, got %q", want, res.Errors[0])
	}
}
