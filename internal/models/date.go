package models

import (
	"fmt"
	"time"
)

// DateLayout is the only string form a calendar date takes at the
// boundary (forms, YAML plans, exports, SQL). Inside the engine dates
// stay time.Time values normalized to midnight UTC so that map keys and
// day arithmetic never drift on timezone or clock components.
const DateLayout = "2006-01-02"

// ParseYMD parses a boundary date string into a normalized time.Time.
func ParseYMD(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// FormatYMD renders a date in the boundary form.
func FormatYMD(t time.Time) string {
	return t.Format(DateLayout)
}

// Midnight truncates a timestamp to its calendar date in UTC.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
