package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Workweek is the fixed Monday–Friday ordering used everywhere a
// weekday set is rendered or iterated.
var Workweek = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
}

var weekdayNames = map[string]time.Weekday{
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
	"sun": time.Sunday, "sunday": time.Sunday,
}

// ParseWeekday accepts short or long English weekday names, case
// insensitive.
func ParseWeekday(name string) (time.Weekday, error) {
	d, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown weekday %q", name)
	}
	return d, nil
}

// WeekdaySet is a membership set over weekdays. Staffing cadences only
// ever hold Mon–Fri members; Validate rejects weekend entries.
type WeekdaySet map[time.Weekday]bool

// NewWeekdaySet builds a set from parsed weekdays.
func NewWeekdaySet(days ...time.Weekday) WeekdaySet {
	s := make(WeekdaySet, len(days))
	for _, d := range days {
		s[d] = true
	}
	return s
}

// ParseWeekdaySet builds a set from weekday names.
func ParseWeekdaySet(names []string) (WeekdaySet, error) {
	s := make(WeekdaySet, len(names))
	for _, n := range names {
		d, err := ParseWeekday(n)
		if err != nil {
			return nil, err
		}
		s[d] = true
	}
	return s, nil
}

func (s WeekdaySet) Contains(d time.Weekday) bool {
	return s[d]
}

// Names returns the members in Mon–Fri order using short names.
func (s WeekdaySet) Names() []string {
	names := make([]string, 0, len(s))
	for _, d := range Workweek {
		if s[d] {
			names = append(names, d.String()[:3])
		}
	}
	return names
}

func (s WeekdaySet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}

func (s *WeekdaySet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	parsed, err := ParseWeekdaySet(names)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
