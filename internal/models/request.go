package models

import (
	"fmt"
	"strings"
	"time"
)

// Outcome sentinels. Any other outcome value is a doctor name.
const (
	OutcomeUnfilled = "UNFILLED"
	OutcomeOff      = "OFF"
)

// Cadence is the staffing rule for one service: one weekday set per
// cadence week, alternating weekly from the schedule start, plus
// optional per-date overrides that force a day on or off regardless of
// the weekday sets. A single-week configuration is stored as two
// identical sets.
type Cadence struct {
	Weeks     [2]WeekdaySet   `json:"weeks"`
	Overrides map[string]bool `json:"overrides,omitempty"` // keyed by DateLayout
}

// DefaultCadence staffs every working day in both weeks. Services with
// no explicit cadence behave this way.
func DefaultCadence() Cadence {
	return Cadence{Weeks: [2]WeekdaySet{
		NewWeekdaySet(Workweek...),
		NewWeekdaySet(Workweek...),
	}}
}

// SingleWeekCadence expands the legacy one-week form into identical
// week-0/week-1 sets.
func SingleWeekCadence(days WeekdaySet) Cadence {
	return Cadence{Weeks: [2]WeekdaySet{days, days}}
}

// ScheduleRequest is the immutable input of one scheduling run.
type ScheduleRequest struct {
	Start       time.Time                  `json:"start"`
	End         time.Time                  `json:"end"`
	Services    []string                   `json:"services"`
	Doctors     []string                   `json:"doctors"`
	Unavailable map[string]map[string]bool `json:"unavailable,omitempty"` // doctor -> DateLayout -> true
	Cadences    map[string]Cadence         `json:"cadences,omitempty"`
}

// IsUnavailable reports whether doctor is marked out on date.
func (r *ScheduleRequest) IsUnavailable(doctor string, date time.Time) bool {
	return r.Unavailable[doctor][FormatYMD(date)]
}

// Validate checks the configuration before any day is processed. A
// failure here aborts the run with no partial output.
func (r *ScheduleRequest) Validate() error {
	if r.End.Before(r.Start) {
		return fmt.Errorf("invalid date range: end %s is before start %s",
			FormatYMD(r.End), FormatYMD(r.Start))
	}
	if len(r.Services) == 0 {
		return fmt.Errorf("service list is empty")
	}
	if len(r.Doctors) == 0 {
		return fmt.Errorf("doctor list is empty")
	}
	for _, d := range r.Doctors {
		if strings.TrimSpace(d) == "" {
			return fmt.Errorf("doctor list contains a blank name")
		}
	}
	for _, s := range r.Services {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("service list contains a blank name")
		}
	}
	for doctor, dates := range r.Unavailable {
		for ymd := range dates {
			if _, err := ParseYMD(ymd); err != nil {
				return fmt.Errorf("unavailability for %s: %w", doctor, err)
			}
		}
	}
	for service, cadence := range r.Cadences {
		if err := validateCadence(cadence); err != nil {
			return fmt.Errorf("cadence for %s: %w", service, err)
		}
	}
	return nil
}

func validateCadence(c Cadence) error {
	for week, set := range c.Weeks {
		for d := range set {
			if d == time.Saturday || d == time.Sunday {
				return fmt.Errorf("week %d contains weekend day %s", week, d)
			}
		}
	}
	for ymd := range c.Overrides {
		if _, err := ParseYMD(ymd); err != nil {
			return fmt.Errorf("override: %w", err)
		}
	}
	return nil
}
