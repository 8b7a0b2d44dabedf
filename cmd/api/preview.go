package main

import (
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/starfederation/datastar-go/datastar"

	"radiology-roster/internal/models"
)

type PreviewSignals struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	Services string `json:"services"`
	Doctors  string `json:"doctors"`
}

const previewDayLimit = 10

// handlePreview runs a throwaway schedule over the step-1 fields as the
// user types, with every service staffed daily and nobody marked out,
// and patches the result table into the wizard page.
func handlePreview(w http.ResponseWriter, r *http.Request) {
	signals := &PreviewSignals{}
	if err := datastar.ReadSignals(r, signals); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sse := datastar.NewSSE(w, r)

	req, err := previewRequest(signals)
	if err != nil {
		sse.PatchElements(fmt.Sprintf(`<div id="preview" class="padding">%s</div>`, html.EscapeString(err.Error())))
		return
	}

	sched, err := engine.Run(r.Context(), req)
	if err != nil {
		sse.PatchElements(fmt.Sprintf(`<div id="preview" class="padding">%s</div>`, html.EscapeString(err.Error())))
		return
	}

	sse.PatchElements(previewTable(sched))
}

func previewRequest(signals *PreviewSignals) (*models.ScheduleRequest, error) {
	start, err := models.ParseYMD(strings.TrimSpace(signals.Start))
	if err != nil {
		return nil, fmt.Errorf("start date: %w", err)
	}
	end, err := models.ParseYMD(strings.TrimSpace(signals.End))
	if err != nil {
		return nil, fmt.Errorf("end date: %w", err)
	}
	if days := int(end.Sub(start)/(24*time.Hour)) + 1; days > cfg.Schedule.MaxRangeDays {
		return nil, fmt.Errorf("date range spans %d days, maximum is %d", days, cfg.Schedule.MaxRangeDays)
	}

	var services []string
	for _, s := range strings.Split(signals.Services, ",") {
		if s = strings.TrimSpace(s); s != "" {
			services = append(services, s)
		}
	}
	var doctors []string
	for _, d := range strings.Split(signals.Doctors, "\n") {
		if d = strings.TrimSpace(d); d != "" {
			doctors = append(doctors, d)
		}
	}
	if len(services) == 0 || len(doctors) == 0 {
		return nil, fmt.Errorf("enter at least one service and one doctor")
	}

	return &models.ScheduleRequest{
		Start:    start,
		End:      end,
		Services: services,
		Doctors:  doctors,
	}, nil
}

func previewTable(sched *models.Schedule) string {
	var sb strings.Builder
	sb.WriteString(`<div id="preview"><table class="border"><thead><tr><th>Date</th>`)
	for _, svc := range sched.Services {
		sb.WriteString(fmt.Sprintf(`<th>%s</th>`, html.EscapeString(svc)))
	}
	sb.WriteString(`</tr></thead><tbody>`)

	days := sched.Days
	truncated := false
	if len(days) > previewDayLimit {
		days = days[:previewDayLimit]
		truncated = true
	}
	for _, day := range days {
		sb.WriteString(fmt.Sprintf(`<tr><td>%s %s</td>`, day.Weekday[:3], models.FormatYMD(day.Date)))
		for _, svc := range sched.Services {
			sb.WriteString(fmt.Sprintf(`<td>%s</td>`, html.EscapeString(day.Outcomes[svc])))
		}
		sb.WriteString(`</tr>`)
	}
	sb.WriteString(`</tbody></table>`)
	if truncated {
		sb.WriteString(fmt.Sprintf(`<div class="padding">Showing first %d of %d days</div>`, previewDayLimit, len(sched.Days)))
	}
	sb.WriteString(`</div>`)
	return sb.String()
}
