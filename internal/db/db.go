package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type Run struct {
	ID         string
	StartDate  time.Time
	EndDate    time.Time
	Services   []string
	Doctors    []string
	FlexTotals []byte // JSONB
	CreatedAt  time.Time
}

type RunDay struct {
	ID          int64
	RunID       string
	Day         time.Time
	Weekday     string
	CadenceWeek int32
	Outcomes    []byte // JSONB
	Flexible    []string
}

// Queries interface mimicking sqlc generated code
type Queries struct {
	db *sql.DB
}

func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

func (q *Queries) InsertRun(ctx context.Context, arg Run) error {
	_, err := q.db.ExecContext(ctx,
		"INSERT INTO runs (id, start_date, end_date, services, doctors, flex_totals, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)",
		arg.ID, arg.StartDate, arg.EndDate, pq.Array(arg.Services), pq.Array(arg.Doctors), arg.FlexTotals, arg.CreatedAt,
	)
	return err
}

func (q *Queries) InsertRunDay(ctx context.Context, arg RunDay) error {
	_, err := q.db.ExecContext(ctx,
		"INSERT INTO run_days (run_id, day, weekday, cadence_week, outcomes, flexible) VALUES ($1, $2, $3, $4, $5, $6)",
		arg.RunID, arg.Day, arg.Weekday, arg.CadenceWeek, arg.Outcomes, pq.Array(arg.Flexible),
	)
	return err
}

func (q *Queries) GetRun(ctx context.Context, id string) (Run, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT id, start_date, end_date, services, doctors, flex_totals, created_at FROM runs WHERE id = $1", id)
	var r Run
	err := row.Scan(&r.ID, &r.StartDate, &r.EndDate, pq.Array(&r.Services), pq.Array(&r.Doctors), &r.FlexTotals, &r.CreatedAt)
	return r, err
}

func (q *Queries) ListRuns(ctx context.Context, limit int32) ([]Run, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT id, start_date, end_date, services, doctors, flex_totals, created_at FROM runs ORDER BY created_at DESC LIMIT $1", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.StartDate, &r.EndDate, pq.Array(&r.Services), pq.Array(&r.Doctors), &r.FlexTotals, &r.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

func (q *Queries) ListRunDays(ctx context.Context, runID string) ([]RunDay, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT id, run_id, day, weekday, cadence_week, outcomes, flexible FROM run_days WHERE run_id = $1 ORDER BY day ASC", runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []RunDay
	for rows.Next() {
		var d RunDay
		if err := rows.Scan(&d.ID, &d.RunID, &d.Day, &d.Weekday, &d.CadenceWeek, &d.Outcomes, pq.Array(&d.Flexible)); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}
