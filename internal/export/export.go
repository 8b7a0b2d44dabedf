package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"radiology-roster/internal/models"
)

// Service renders finished schedules into downloadable formats. The
// engine defines the semantics; this layer only formats.
type Service struct {
	logger zerolog.Logger
}

func NewService(logger zerolog.Logger) *Service {
	return &Service{
		logger: logger.With().Str("component", "schedule_export").Logger(),
	}
}

// Result carries the export payload plus the headers a handler needs.
type Result struct {
	Data        []byte
	Filename    string
	ContentType string
}

// ToCSV renders one row per working day: date, weekday, one column per
// service in request order, and a trailing column listing the flexible
// doctors for that day.
func (s *Service) ToCSV(schedule *models.Schedule) (*Result, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := append([]string{"Date", "Weekday"}, schedule.Services...)
	header = append(header, "Flexible")
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, day := range schedule.Days {
		row := make([]string, 0, len(header))
		row = append(row, models.FormatYMD(day.Date), day.Weekday)
		for _, service := range schedule.Services {
			row = append(row, day.Outcomes[service])
		}
		row = append(row, strings.Join(day.Flexible, "; "))
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	s.logger.Debug().Int("days", len(schedule.Days)).Msg("csv export rendered")

	return &Result{
		Data:        buf.Bytes(),
		Filename:    exportFilename(schedule, "csv"),
		ContentType: "text/csv; charset=utf-8",
	}, nil
}

// ToJSON renders the full schedule, including flexible-day totals.
func (s *Service) ToJSON(schedule *models.Schedule) (*Result, error) {
	data, err := json.MarshalIndent(schedule, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schedule: %w", err)
	}

	s.logger.Debug().Int("days", len(schedule.Days)).Msg("json export rendered")

	return &Result{
		Data:        data,
		Filename:    exportFilename(schedule, "json"),
		ContentType: "application/json",
	}, nil
}

func exportFilename(schedule *models.Schedule, ext string) string {
	return fmt.Sprintf("rota-%s-to-%s.%s",
		models.FormatYMD(schedule.Start), models.FormatYMD(schedule.End), ext)
}
