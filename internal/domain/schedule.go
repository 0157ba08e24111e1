package domain

import (
	"fmt"
	"maps"
	"slices"
	"time"
)

type Direction string

const (
	OneWay    Direction = "oneWay"
	RoundTrip Direction = "roundTrip"
)

type CadenceMode string

const (
	CadenceFixed  CadenceMode = "fixed"
	CadenceSmooth CadenceMode = "smooth"
)

// DayMode only matters under CadenceFixed. It is still stored under
// CadenceSmooth so switching back restores the user's choice.
type DayMode string

const (
	DayDaily        DayMode = "daily"
	DayWeekdaySplit DayMode = "weekdaySplit"
)

// The three independent toggles of the schedule page.
type ScheduleSwitches struct {
	Direction   Direction   `json:"direction"`
	CadenceMode CadenceMode `json:"cadenceMode"`
	DayMode     DayMode     `json:"dayMode"`
}

func DefaultSwitches() ScheduleSwitches {
	return ScheduleSwitches{Direction: OneWay, CadenceMode: CadenceFixed, DayMode: DayDaily}
}

// Validate rejects unknown switch values.
func (s ScheduleSwitches) Validate() error {
	switch s.Direction {
	case OneWay, RoundTrip:
	default:
		return fmt.Errorf("unknown direction %q", s.Direction)
	}
	switch s.CadenceMode {
	case CadenceFixed, CadenceSmooth:
	default:
		return fmt.Errorf("unknown cadence mode %q", s.CadenceMode)
	}
	switch s.DayMode {
	case DayDaily, DayWeekdaySplit:
	default:
		return fmt.Errorf("unknown day mode %q", s.DayMode)
	}
	return nil
}

// TimeBucket selects which partition of a TimeSlotMap a time belongs to.
type TimeBucket string

const (
	BucketFixed   TimeBucket = "fixed"
	BucketWeekday TimeBucket = "weekday"
	BucketWeekend TimeBucket = "weekend"
)

var buckets = []TimeBucket{BucketFixed, BucketWeekday, BucketWeekend}

func (b TimeBucket) Valid() bool { return slices.Contains(buckets, b) }

// Container index -> "HH:MM", partitioned by bucket.
type TimeSlotMap struct {
	Fixed   map[int]string `json:"fixed,omitempty"`
	Weekday map[int]string `json:"weekday,omitempty"`
	Weekend map[int]string `json:"weekend,omitempty"`
}

// Bucket returns the slots of b. The result may be nil.
func (m TimeSlotMap) Bucket(b TimeBucket) map[int]string {
	switch b {
	case BucketWeekday:
		return m.Weekday
	case BucketWeekend:
		return m.Weekend
	default:
		return m.Fixed
	}
}

// Clone returns a copy that shares no maps with m.
func (m TimeSlotMap) Clone() TimeSlotMap {
	return TimeSlotMap{
		Fixed:   maps.Clone(m.Fixed),
		Weekday: maps.Clone(m.Weekday),
		Weekend: maps.Clone(m.Weekend),
	}
}

func (m *TimeSlotMap) bucketPtr(b TimeBucket) *map[int]string {
	switch b {
	case BucketWeekday:
		return &m.Weekday
	case BucketWeekend:
		return &m.Weekend
	default:
		return &m.Fixed
	}
}

type Weekday string

const (
	Monday    Weekday = "mon"
	Tuesday   Weekday = "tue"
	Wednesday Weekday = "wed"
	Thursday  Weekday = "thu"
	Friday    Weekday = "fri"
	Saturday  Weekday = "sat"
	Sunday    Weekday = "sun"
)

var weekOrder = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

func (d Weekday) Valid() bool { return slices.Contains(weekOrder, d) }

// IsWeekend reports whether d falls into the weekend bucket.
func (d Weekday) IsWeekend() bool { return d == Saturday || d == Sunday }

// ScheduleData is the payload of the time/schedule page.
type ScheduleData struct {
	Switches     ScheduleSwitches `json:"switches"`
	Times        TimeSlotMap      `json:"times"`
	SelectedDays []Weekday        `json:"selectedDays,omitempty"`
}

func NewScheduleData() ScheduleData {
	return ScheduleData{Switches: DefaultSwitches()}
}

// Clone returns a deep copy of s.
func (s ScheduleData) Clone() ScheduleData {
	s.Times = s.Times.Clone()
	s.SelectedDays = slices.Clone(s.SelectedDays)
	return s
}

// Validate rejects schedule data no sequence of SetTime and ToggleDay calls
// could produce. Missing times are not checked here.
func (s ScheduleData) Validate() error {
	if err := s.Switches.Validate(); err != nil {
		return err
	}
	for _, b := range buckets {
		for idx, v := range s.Times.Bucket(b) {
			if idx < 0 {
				return fmt.Errorf("%s: negative container index %d", b, idx)
			}
			if _, err := ParseClock(v); err != nil {
				return fmt.Errorf("%s: slot %d: %w", b, idx, err)
			}
		}
	}
	for i, d := range s.SelectedDays {
		if !d.Valid() {
			return fmt.Errorf("unknown weekday %q", d)
		}
		if slices.Contains(s.SelectedDays[:i], d) {
			return fmt.Errorf("weekday %q selected twice", d)
		}
	}
	return nil
}

// ActiveBuckets lists the time buckets the current switches make the user
// fill in. Smooth cadence and daily fixed cadence share the fixed bucket.
func (s ScheduleData) ActiveBuckets() []TimeBucket {
	if s.Switches.CadenceMode == CadenceFixed && s.Switches.DayMode == DayWeekdaySplit {
		return []TimeBucket{BucketWeekday, BucketWeekend}
	}
	return []TimeBucket{BucketFixed}
}

// SetTime assigns an "HH:MM" time to a container index. An empty value
// clears the slot.
func (s *ScheduleData) SetTime(b TimeBucket, index int, value string) error {
	if !b.Valid() {
		return fmt.Errorf("set time: unknown bucket %q", b)
	}
	if index < 0 {
		return fmt.Errorf("set time: negative container index %d", index)
	}

	slots := s.Times.bucketPtr(b)
	if value == "" {
		delete(*slots, index)
		return nil
	}

	if _, err := ParseClock(value); err != nil {
		return fmt.Errorf("set time: %w", err)
	}

	if *slots == nil {
		*slots = make(map[int]string)
	}
	(*slots)[index] = value
	return nil
}

// ToggleDay adds or removes d from the selected days, keeping week order.
func (s *ScheduleData) ToggleDay(d Weekday) error {
	if !d.Valid() {
		return fmt.Errorf("toggle day: unknown weekday %q", d)
	}

	if i := slices.Index(s.SelectedDays, d); i >= 0 {
		s.SelectedDays = slices.Delete(s.SelectedDays, i, i+1)
		return nil
	}

	days := append(slices.Clone(s.SelectedDays), d)
	out := make([]Weekday, 0, len(days))
	for _, w := range weekOrder {
		if slices.Contains(days, w) {
			out = append(out, w)
		}
	}
	s.SelectedDays = out
	return nil
}

// ParseClock parses a 24h "HH:MM" time of day.
func ParseClock(v string) (time.Time, error) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: want HH:MM", v)
	}
	return t, nil
}
