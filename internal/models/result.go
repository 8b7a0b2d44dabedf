package models

import (
	"encoding/json"
	"time"
)

// DayResult is the outcome of one working day: one entry per service
// (doctor name, UNFILLED, or OFF) plus the doctors who were available
// but assigned nowhere.
type DayResult struct {
	Date        time.Time
	Weekday     string
	CadenceWeek int
	Outcomes    map[string]string
	Flexible    []string
}

type dayResultJSON struct {
	Date        string            `json:"date"`
	Weekday     string            `json:"weekday"`
	CadenceWeek int               `json:"cadence_week"`
	Outcomes    map[string]string `json:"outcomes"`
	Flexible    []string          `json:"flexible"`
}

func (d DayResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(dayResultJSON{
		Date:        FormatYMD(d.Date),
		Weekday:     d.Weekday,
		CadenceWeek: d.CadenceWeek,
		Outcomes:    d.Outcomes,
		Flexible:    d.Flexible,
	})
}

func (d *DayResult) UnmarshalJSON(data []byte) error {
	var raw dayResultJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	date, err := ParseYMD(raw.Date)
	if err != nil {
		return err
	}
	*d = DayResult{
		Date:        date,
		Weekday:     raw.Weekday,
		CadenceWeek: raw.CadenceWeek,
		Outcomes:    raw.Outcomes,
		Flexible:    raw.Flexible,
	}
	return nil
}

// Schedule is the full output of one run. RunID and CreatedAt are
// assigned by the caller after the engine returns; the engine output
// itself is deterministic for identical input.
type Schedule struct {
	RunID      string
	Start      time.Time
	End        time.Time
	Services   []string
	Doctors    []string
	Days       []DayResult
	FlexTotals map[string]int
	CreatedAt  time.Time
}

type scheduleJSON struct {
	RunID      string         `json:"run_id,omitempty"`
	Start      string         `json:"start"`
	End        string         `json:"end"`
	Services   []string       `json:"services"`
	Doctors    []string       `json:"doctors"`
	Days       []DayResult    `json:"days"`
	FlexTotals map[string]int `json:"flexible_totals"`
	CreatedAt  string         `json:"created_at,omitempty"`
}

func (s Schedule) MarshalJSON() ([]byte, error) {
	created := ""
	if !s.CreatedAt.IsZero() {
		created = s.CreatedAt.UTC().Format(time.RFC3339)
	}
	return json.Marshal(scheduleJSON{
		RunID:      s.RunID,
		Start:      FormatYMD(s.Start),
		End:        FormatYMD(s.End),
		Services:   s.Services,
		Doctors:    s.Doctors,
		Days:       s.Days,
		FlexTotals: s.FlexTotals,
		CreatedAt:  created,
	})
}

func (s *Schedule) UnmarshalJSON(data []byte) error {
	var raw scheduleJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	start, err := ParseYMD(raw.Start)
	if err != nil {
		return err
	}
	end, err := ParseYMD(raw.End)
	if err != nil {
		return err
	}
	var created time.Time
	if raw.CreatedAt != "" {
		created, err = time.Parse(time.RFC3339, raw.CreatedAt)
		if err != nil {
			return err
		}
	}
	*s = Schedule{
		RunID:      raw.RunID,
		Start:      start,
		End:        end,
		Services:   raw.Services,
		Doctors:    raw.Doctors,
		Days:       raw.Days,
		FlexTotals: raw.FlexTotals,
		CreatedAt:  created,
	}
	return nil
}

// RunSummary is the history-listing view of a stored run.
type RunSummary struct {
	RunID     string    `json:"run_id"`
	Start     time.Time `json:"-"`
	End       time.Time `json:"-"`
	Services  []string  `json:"services"`
	Doctors   []string  `json:"doctors"`
	CreatedAt time.Time `json:"created_at"`
}
