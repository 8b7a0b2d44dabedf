package rota

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"radiology-roster/internal/models"
)

// Engine produces a schedule for one request. It holds no state between
// runs; each Run builds its own rotations and fairness counters, so
// independent runs can execute in parallel.
type Engine struct {
	logger zerolog.Logger
}

func NewEngine(logger zerolog.Logger) *Engine {
	return &Engine{
		logger: logger.With().Str("component", "rota_engine").Logger(),
	}
}

// Run validates the request and assigns doctors to services day by day.
// Configuration errors abort with no partial output. Supply shortfalls
// and off-cadence days are data (UNFILLED / OFF outcomes), never errors.
// A run is a single sequential pass over the day list: each day's
// rotation state depends on the previous day's, so days are never
// processed out of order and a computed day is never revisited.
func (e *Engine) Run(ctx context.Context, req *models.ScheduleRequest) (*models.Schedule, error) {
	_ = ctx // runs are short and not interruptible; callers bound the range size

	if req == nil {
		return nil, fmt.Errorf("request cannot be nil")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	days, err := WorkingDays(req.Start, req.End)
	if err != nil {
		return nil, err
	}

	rotations := make(map[string]*Rotation, len(req.Services))
	for _, service := range req.Services {
		rotations[service] = NewRotation(req.Doctors)
	}
	fairness := NewFairnessTracker(req.Doctors)
	resolver := newCadenceResolver(req.Cadences)

	schedule := &models.Schedule{
		Start:    req.Start,
		End:      req.End,
		Services: req.Services,
		Doctors:  req.Doctors,
		Days:     make([]models.DayResult, 0, len(days)),
	}

	for _, day := range days {
		available := make(map[string]bool, len(req.Doctors))
		for _, doctor := range req.Doctors {
			if !req.IsUnavailable(doctor, day.Date) {
				available[doctor] = true
			}
		}

		outcomes, used := e.assignDay(day, req.Services, available, rotations, fairness, resolver)

		// Flexible = available minus used, in doctor-list order.
		var flexible []string
		for _, doctor := range req.Doctors {
			if available[doctor] && !used[doctor] {
				flexible = append(flexible, doctor)
			}
		}
		fairness.RecordFlexible(flexible)

		schedule.Days = append(schedule.Days, models.DayResult{
			Date:        day.Date,
			Weekday:     day.Weekday.String(),
			CadenceWeek: day.CadenceWeek,
			Outcomes:    outcomes,
			Flexible:    flexible,
		})
	}

	schedule.FlexTotals = fairness.Totals()

	e.logger.Info().
		Str("start", models.FormatYMD(req.Start)).
		Str("end", models.FormatYMD(req.End)).
		Int("days", len(schedule.Days)).
		Int("services", len(req.Services)).
		Int("doctors", len(req.Doctors)).
		Msg("schedule generated")

	return schedule, nil
}

// assignDay resolves every service for one day. Services are processed
// in the caller-supplied order: earlier services get first pick.
func (e *Engine) assignDay(
	day Day,
	services []string,
	available map[string]bool,
	rotations map[string]*Rotation,
	fairness *FairnessTracker,
	resolver cadenceResolver,
) (map[string]string, map[string]bool) {
	outcomes := make(map[string]string, len(services))
	used := make(map[string]bool)

	for _, service := range services {
		if !resolver.isOn(service, day) {
			outcomes[service] = models.OutcomeOff
			continue
		}

		candidates := rotations[service].Candidates(available, used)
		if len(candidates) == 0 {
			outcomes[service] = models.OutcomeUnfilled
			continue
		}

		// Pick the candidate with the highest flexible count; on ties
		// the earliest rotation position wins. Candidates arrive in
		// rotation order, so a strict > keeps the earlier one.
		best := candidates[0]
		for _, c := range candidates[1:] {
			if fairness.Count(c.Doctor) > fairness.Count(best.Doctor) {
				best = c
			}
		}

		outcomes[service] = best.Doctor
		used[best.Doctor] = true
		rotations[service].Advance(best.Doctor)
	}

	return outcomes, used
}
