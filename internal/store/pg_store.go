package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"radiology-roster/internal/db"
	"radiology-roster/internal/models"
)

// PostgresStore persists schedule runs in two tables: a runs row per
// generated schedule and a run_days row per working day.
type PostgresStore struct {
	q *db.Queries
}

func NewPostgresStore(conn *sql.DB) *PostgresStore {
	return &PostgresStore{q: db.New(conn)}
}

func (s *PostgresStore) SaveSchedule(ctx context.Context, sched *models.Schedule) error {
	totals, err := json.Marshal(sched.FlexTotals)
	if err != nil {
		return fmt.Errorf("encoding flex totals: %w", err)
	}
	run := db.Run{
		ID:         sched.RunID,
		StartDate:  sched.Start,
		EndDate:    sched.End,
		Services:   sched.Services,
		Doctors:    sched.Doctors,
		FlexTotals: totals,
		CreatedAt:  sched.CreatedAt,
	}
	if err := s.q.InsertRun(ctx, run); err != nil {
		return fmt.Errorf("inserting run %s: %w", sched.RunID, err)
	}
	for _, day := range sched.Days {
		outcomes, err := json.Marshal(day.Outcomes)
		if err != nil {
			return fmt.Errorf("encoding outcomes for %s: %w", models.FormatYMD(day.Date), err)
		}
		rd := db.RunDay{
			RunID:       sched.RunID,
			Day:         day.Date,
			Weekday:     day.Weekday,
			CadenceWeek: int32(day.CadenceWeek),
			Outcomes:    outcomes,
			Flexible:    day.Flexible,
		}
		if err := s.q.InsertRunDay(ctx, rd); err != nil {
			return fmt.Errorf("inserting day %s: %w", models.FormatYMD(day.Date), err)
		}
	}
	return nil
}

func (s *PostgresStore) GetSchedule(ctx context.Context, id string) (*models.Schedule, error) {
	run, err := s.q.GetRun(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading run %s: %w", id, err)
	}
	days, err := s.q.ListRunDays(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading days for run %s: %w", id, err)
	}
	sched := &models.Schedule{
		RunID:     run.ID,
		Start:     models.Midnight(run.StartDate),
		End:       models.Midnight(run.EndDate),
		Services:  run.Services,
		Doctors:   run.Doctors,
		CreatedAt: run.CreatedAt,
	}
	if len(run.FlexTotals) > 0 {
		if err := json.Unmarshal(run.FlexTotals, &sched.FlexTotals); err != nil {
			return nil, fmt.Errorf("decoding flex totals: %w", err)
		}
	}
	for _, d := range days {
		day := models.DayResult{
			Date:        models.Midnight(d.Day),
			Weekday:     d.Weekday,
			CadenceWeek: int(d.CadenceWeek),
			Flexible:    d.Flexible,
		}
		if len(d.Outcomes) > 0 {
			if err := json.Unmarshal(d.Outcomes, &day.Outcomes); err != nil {
				return nil, fmt.Errorf("decoding outcomes for %s: %w", models.FormatYMD(d.Day), err)
			}
		}
		sched.Days = append(sched.Days, day)
	}
	return sched, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, limit int) ([]models.RunSummary, error) {
	runs, err := s.q.ListRuns(ctx, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	var summaries []models.RunSummary
	for _, r := range runs {
		summaries = append(summaries, models.RunSummary{
			RunID:     r.ID,
			Start:     models.Midnight(r.StartDate),
			End:       models.Midnight(r.EndDate),
			Services:  r.Services,
			Doctors:   r.Doctors,
			CreatedAt: r.CreatedAt,
		})
	}
	return summaries, nil
}
