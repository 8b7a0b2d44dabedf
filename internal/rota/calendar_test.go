package rota

import (
	"testing"
	"time"

	"radiology-roster/internal/models"
)

func ymd(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := models.ParseYMD(s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func TestWorkingDays_SkipsWeekends(t *testing.T) {
	// 2026-09-07 is a Monday.
	days, err := WorkingDays(ymd(t, "2026-09-05"), ymd(t, "2026-09-20"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(days) != 10 {
		t.Fatalf("Expected 10 working days, got %d", len(days))
	}
	for _, d := range days {
		if d.Weekday == time.Saturday || d.Weekday == time.Sunday {
			t.Errorf("Weekend day %s leaked into sequence", models.FormatYMD(d.Date))
		}
	}
	if got := models.FormatYMD(days[0].Date); got != "2026-09-07" {
		t.Errorf("Expected first day 2026-09-07, got %s", got)
	}
	if got := models.FormatYMD(days[9].Date); got != "2026-09-18" {
		t.Errorf("Expected last day 2026-09-18, got %s", got)
	}
}

func TestWorkingDays_CadenceWeekAlternates(t *testing.T) {
	days, err := WorkingDays(ymd(t, "2026-09-07"), ymd(t, "2026-09-25"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	expected := map[string]int{
		"2026-09-07": 0, "2026-09-11": 0,
		"2026-09-14": 1, "2026-09-18": 1,
		"2026-09-21": 0, "2026-09-25": 0,
	}
	for _, d := range days {
		want, ok := expected[models.FormatYMD(d.Date)]
		if !ok {
			continue
		}
		if d.CadenceWeek != want {
			t.Errorf("%s: expected cadence week %d, got %d",
				models.FormatYMD(d.Date), want, d.CadenceWeek)
		}
	}
}

func TestWorkingDays_StartMidweek(t *testing.T) {
	// Week boundaries are counted from the start date, not from Monday:
	// a Wednesday start means the following Tuesday is still week 0.
	days, err := WorkingDays(ymd(t, "2026-09-09"), ymd(t, "2026-09-17"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	byDate := make(map[string]Day, len(days))
	for _, d := range days {
		byDate[models.FormatYMD(d.Date)] = d
	}
	if byDate["2026-09-15"].CadenceWeek != 0 {
		t.Errorf("2026-09-15 should still be week 0, got %d", byDate["2026-09-15"].CadenceWeek)
	}
	if byDate["2026-09-16"].CadenceWeek != 1 {
		t.Errorf("2026-09-16 should be week 1, got %d", byDate["2026-09-16"].CadenceWeek)
	}
}

func TestWorkingDays_SingleDay(t *testing.T) {
	days, err := WorkingDays(ymd(t, "2026-09-07"), ymd(t, "2026-09-07"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(days) != 1 || days[0].Weekday != time.Monday {
		t.Fatalf("Expected one Monday, got %+v", days)
	}
}

func TestWorkingDays_InvalidRange(t *testing.T) {
	_, err := WorkingDays(ymd(t, "2026-09-08"), ymd(t, "2026-09-07"))
	if err == nil {
		t.Fatal("Expected error for end before start")
	}
}

func TestWorkingDays_WeekendOnlyRange(t *testing.T) {
	days, err := WorkingDays(ymd(t, "2026-09-05"), ymd(t, "2026-09-06"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(days) != 0 {
		t.Errorf("Expected empty sequence for Sat-Sun range, got %d days", len(days))
	}
}
