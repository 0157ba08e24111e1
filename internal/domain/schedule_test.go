package domain

import (
	"slices"
	"testing"
)

func TestScheduleSetTime(t *testing.T) {
	s := NewScheduleData()

	if err := s.SetTime(BucketFixed, 0, "08:30"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := s.Times.Fixed[0]; got != "08:30" {
		t.Fatalf("expected 08:30, got %q", got)
	}

	if err := s.SetTime(BucketFixed, 1, "25:00"); err == nil {
		t.Fatalf("expected error for invalid time")
	}
	if err := s.SetTime(BucketWeekday, -1, "08:00"); err == nil {
		t.Fatalf("expected error for negative index")
	}

	if err := s.SetTime(BucketFixed, 0, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := s.Times.Fixed[0]; ok {
		t.Fatalf("expected slot cleared")
	}
	if s.Times.Weekday != nil || s.Times.Weekend != nil {
		t.Fatalf("other buckets must stay untouched")
	}
}

func TestScheduleToggleDayKeepsWeekOrder(t *testing.T) {
	s := NewScheduleData()

	for _, d := range []Weekday{Friday, Monday, Sunday, Wednesday} {
		if err := s.ToggleDay(d); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := s.ToggleDay(Sunday); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Weekday{Monday, Wednesday, Friday}
	if !slices.Equal(s.SelectedDays, want) {
		t.Fatalf("expected %v, got %v", want, s.SelectedDays)
	}

	if err := s.ToggleDay("someday"); err == nil {
		t.Fatalf("expected error for unknown weekday")
	}
}

func TestScheduleActiveBuckets(t *testing.T) {
	cases := []struct {
		switches ScheduleSwitches
		want     []TimeBucket
	}{
		{ScheduleSwitches{OneWay, CadenceFixed, DayDaily}, []TimeBucket{BucketFixed}},
		{ScheduleSwitches{OneWay, CadenceFixed, DayWeekdaySplit}, []TimeBucket{BucketWeekday, BucketWeekend}},
		{ScheduleSwitches{RoundTrip, CadenceSmooth, DayWeekdaySplit}, []TimeBucket{BucketFixed}},
	}

	for _, tc := range cases {
		got := ScheduleData{Switches: tc.switches}.ActiveBuckets()
		if !slices.Equal(got, tc.want) {
			t.Fatalf("%+v: expected %v, got %v", tc.switches, tc.want, got)
		}
	}
}

func TestScheduleSwitchesValidate(t *testing.T) {
	if err := DefaultSwitches().Validate(); err != nil {
		t.Fatalf("default switches: unexpected error: %v", err)
	}

	bad := DefaultSwitches()
	bad.Direction = "sideways"
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for unknown direction")
	}
}

func TestWeekdayIsWeekend(t *testing.T) {
	if !Saturday.IsWeekend() || !Sunday.IsWeekend() {
		t.Fatalf("expected sat and sun to be weekend days")
	}
	if Friday.IsWeekend() {
		t.Fatalf("friday is not a weekend day")
	}
}

func TestScheduleSetTimeRejectsUnknownBucket(t *testing.T) {
	s := NewScheduleData()
	if err := s.SetTime("monthly", 0, "08:00"); err == nil {
		t.Fatalf("expected error for unknown bucket")
	}
	if s.Times.Fixed != nil {
		t.Fatalf("unknown bucket must not fall back to fixed")
	}
}

func TestScheduleDataValidate(t *testing.T) {
	ok := NewScheduleData()
	ok.Times.Weekend = map[int]string{0: "10:00"}
	ok.SelectedDays = []Weekday{Monday, Saturday}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := map[string]func(s *ScheduleData){
		"bad switch":    func(s *ScheduleData) { s.Switches.CadenceMode = "sometimes" },
		"bad time":      func(s *ScheduleData) { s.Times.Fixed = map[int]string{0: "8am"} },
		"negative slot": func(s *ScheduleData) { s.Times.Weekday = map[int]string{-1: "08:00"} },
		"bad weekday":   func(s *ScheduleData) { s.SelectedDays = []Weekday{"funday"} },
		"duplicate day": func(s *ScheduleData) { s.SelectedDays = []Weekday{Monday, Monday} },
	}
	for name, mutate := range cases {
		s := NewScheduleData()
		mutate(&s)
		if err := s.Validate(); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestScheduleDataCloneSharesNothing(t *testing.T) {
	s := NewScheduleData()
	s.Times.Fixed = map[int]string{0: "08:00"}
	s.SelectedDays = []Weekday{Monday}

	c := s.Clone()
	c.Times.Fixed[0] = "09:00"
	c.SelectedDays[0] = Friday

	if s.Times.Fixed[0] != "08:00" || s.SelectedDays[0] != Monday {
		t.Fatalf("clone must not alias the original, got %+v", s)
	}
}
