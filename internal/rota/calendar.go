package rota

import (
	"fmt"
	"time"

	"radiology-roster/internal/models"
)

// Day is one working day of the schedule range, tagged with its cadence
// week. The cadence week alternates 0/1 weekly relative to the start
// date, so the start date always falls in week 0.
type Day struct {
	Date        time.Time
	Weekday     time.Weekday
	CadenceWeek int
}

// WorkingDays enumerates the Monday–Friday days in [start, end] in
// ascending order. Both bounds are expected at midnight UTC.
func WorkingDays(start, end time.Time) ([]Day, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("invalid date range: end %s is before start %s",
			models.FormatYMD(end), models.FormatYMD(start))
	}

	var days []Day
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		wd := d.Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			continue
		}
		days = append(days, Day{
			Date:        d,
			Weekday:     wd,
			CadenceWeek: (daysSince(start, d) / 7) % 2,
		})
	}
	return days, nil
}

func daysSince(start, d time.Time) int {
	return int(d.Sub(start) / (24 * time.Hour))
}
