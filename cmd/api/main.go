package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"

	"radiology-roster/internal/config"
	"radiology-roster/internal/export"
	"radiology-roster/internal/logging"
	"radiology-roster/internal/middleware"
	"radiology-roster/internal/models"
	"radiology-roster/internal/rota"
	"radiology-roster/internal/store"
)

var (
	cfg      *config.Config
	logger   zerolog.Logger
	engine   *rota.Engine
	exporter *export.Service
	runStore RunStore
)

// RunStore is the persistence surface the handlers need. Backed by
// Postgres when a database URL is configured, by memory otherwise.
type RunStore interface {
	SaveSchedule(ctx context.Context, sched *models.Schedule) error
	GetSchedule(ctx context.Context, id string) (*models.Schedule, error)
	ListRuns(ctx context.Context, limit int) ([]models.RunSummary, error)
}

// MemoryStore keeps generated runs for the lifetime of the process.
type MemoryStore struct {
	mu   sync.RWMutex
	runs map[string]*models.Schedule
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: make(map[string]*models.Schedule)}
}

func (s *MemoryStore) SaveSchedule(ctx context.Context, sched *models.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[sched.RunID] = sched
	return nil
}

func (s *MemoryStore) GetSchedule(ctx context.Context, id string) (*models.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sched, ok := s.runs[id]
	if !ok {
		return nil, fmt.Errorf("run %s not found", id)
	}
	return sched, nil
}

func (s *MemoryStore) ListRuns(ctx context.Context, limit int) ([]models.RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var summaries []models.RunSummary
	for _, sched := range s.runs {
		summaries = append(summaries, models.RunSummary{
			RunID:     sched.RunID,
			Start:     sched.Start,
			End:       sched.End,
			Services:  sched.Services,
			Doctors:   sched.Doctors,
			CreatedAt: sched.CreatedAt,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	if limit > 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

// Data structs for UI

type WizardData struct {
	Start        string
	End          string
	ServicesCSV  string
	DoctorsText  string
	MaxRangeDays int
	Error        string
}

type AvailabilityData struct {
	Start       string
	End         string
	ServicesCSV string
	DoctorsText string
	Doctors     []string
	Days        []rota.Day
}

type CadenceData struct {
	Start       string
	End         string
	ServicesCSV string
	DoctorsText string
	Services    []string
	Weekdays    []time.Weekday
	Unavailable []string
}

type ScheduleData struct {
	Schedule *models.Schedule
}

type RunsData struct {
	Runs []models.RunSummary
}

func main() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		panic(err)
	}
	logger = logging.Setup(string(cfg.App.Env))

	engine = rota.NewEngine(logger)
	exporter = export.NewService(logger)

	if cfg.Database.URL != "" {
		conn, err := sql.Open("postgres", cfg.Database.URL)
		if err != nil {
			logger.Fatal().Err(err).Msg("opening database")
		}
		if err := conn.Ping(); err != nil {
			logger.Fatal().Err(err).Msg("pinging database")
		}
		runStore = store.NewPostgresStore(conn)
		logger.Info().Msg("run history backed by postgres")
	} else {
		runStore = NewMemoryStore()
		logger.Info().Msg("run history kept in memory")
	}

	http.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("ui/static"))))
	http.HandleFunc("/", middleware.CSRF(handleIndex))
	http.HandleFunc("/schedule/availability", middleware.CSRF(handleAvailabilityStep))
	http.HandleFunc("/schedule/cadence", middleware.CSRF(handleCadenceStep))
	http.HandleFunc("/schedule", middleware.CSRF(handleGenerate))
	http.HandleFunc("/schedule/upload", middleware.CSRF(handleUpload))
	http.HandleFunc("/runs", middleware.CSRF(handleRuns))
	http.HandleFunc("/runs/view", middleware.CSRF(handleRunView))
	http.HandleFunc("/export", middleware.CSRF(handleExport))
	http.HandleFunc("/api/preview", middleware.CSRF(handlePreview))

	logger.Info().Str("addr", cfg.Addr()).Msg("server started")
	if err := http.ListenAndServe(cfg.Addr(), nil); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
}

// nextMonday is the default start of a new plan: the first Monday
// strictly after today.
func nextMonday(now time.Time) time.Time {
	d := models.Midnight(now).AddDate(0, 0, 1)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	start := nextMonday(time.Now())
	end := start.AddDate(0, 0, 11) // two working weeks, Monday through second Friday

	data := WizardData{
		Start:        models.FormatYMD(start),
		End:          models.FormatYMD(end),
		MaxRangeDays: cfg.Schedule.MaxRangeDays,
	}
	render(w, r, "wizard", data, "ui/templates/wizard.html")
}

// parseWizardBase reads the step-1 fields carried through every wizard
// step: the date range, the service list (comma separated, priority
// order) and the doctor list (one per line, rotation order).
func parseWizardBase(r *http.Request) (*models.ScheduleRequest, error) {
	start, err := models.ParseYMD(r.FormValue("start"))
	if err != nil {
		return nil, fmt.Errorf("start date: %w", err)
	}
	end, err := models.ParseYMD(r.FormValue("end"))
	if err != nil {
		return nil, fmt.Errorf("end date: %w", err)
	}
	if days := int(end.Sub(start)/(24*time.Hour)) + 1; days > cfg.Schedule.MaxRangeDays {
		return nil, fmt.Errorf("date range spans %d days, maximum is %d", days, cfg.Schedule.MaxRangeDays)
	}

	var services []string
	for _, s := range strings.Split(r.FormValue("services"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			services = append(services, s)
		}
	}
	var doctors []string
	for _, d := range strings.Split(r.FormValue("doctors"), "\n") {
		if d = strings.TrimSpace(d); d != "" {
			doctors = append(doctors, d)
		}
	}

	return &models.ScheduleRequest{
		Start:    start,
		End:      end,
		Services: services,
		Doctors:  doctors,
	}, nil
}

// parseUnavailable reads the availability grid checkboxes, one value
// per ticked cell in the form "Doctor|2026-09-07".
func parseUnavailable(values []string) (map[string]map[string]bool, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make(map[string]map[string]bool)
	for _, v := range values {
		doctor, ymd, ok := strings.Cut(v, "|")
		if !ok {
			return nil, fmt.Errorf("malformed unavailability entry %q", v)
		}
		if _, err := models.ParseYMD(ymd); err != nil {
			return nil, fmt.Errorf("unavailability for %s: %w", doctor, err)
		}
		if out[doctor] == nil {
			out[doctor] = make(map[string]bool)
		}
		out[doctor][ymd] = true
	}
	return out, nil
}

// parseCadences reads the per-service cadence forms. A service with no
// ticked weekday in either week gets no entry and staffs every working
// day. Override lines look like "2026-09-10=off" or "2026-09-21=on".
func parseCadences(r *http.Request, services []string) (map[string]models.Cadence, error) {
	cadences := make(map[string]models.Cadence)
	for i, svc := range services {
		w0, err := models.ParseWeekdaySet(r.Form[fmt.Sprintf("cad_%d_w0", i)])
		if err != nil {
			return nil, fmt.Errorf("cadence for %s: %w", svc, err)
		}
		w1, err := models.ParseWeekdaySet(r.Form[fmt.Sprintf("cad_%d_w1", i)])
		if err != nil {
			return nil, fmt.Errorf("cadence for %s: %w", svc, err)
		}

		overrides, err := parseOverrides(r.FormValue(fmt.Sprintf("cad_%d_overrides", i)))
		if err != nil {
			return nil, fmt.Errorf("overrides for %s: %w", svc, err)
		}

		if len(w0) == 0 && len(w1) == 0 && len(overrides) == 0 {
			continue
		}
		if len(w0) == 0 && len(w1) == 0 {
			c := models.DefaultCadence()
			c.Overrides = overrides
			cadences[svc] = c
			continue
		}
		cadences[svc] = models.Cadence{
			Weeks:     [2]models.WeekdaySet{w0, w1},
			Overrides: overrides,
		}
	}
	if len(cadences) == 0 {
		return nil, nil
	}
	return cadences, nil
}

func parseOverrides(text string) (map[string]bool, error) {
	var overrides map[string]bool
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ymd, state, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("malformed override line %q, want date=on or date=off", line)
		}
		ymd = strings.TrimSpace(ymd)
		if _, err := models.ParseYMD(ymd); err != nil {
			return nil, err
		}
		var on bool
		switch strings.ToLower(strings.TrimSpace(state)) {
		case "on":
			on = true
		case "off":
			on = false
		default:
			return nil, fmt.Errorf("override %s: state %q is neither on nor off", ymd, state)
		}
		if overrides == nil {
			overrides = make(map[string]bool)
		}
		overrides[ymd] = on
	}
	return overrides, nil
}

func handleAvailabilityStep(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	req, err := parseWizardBase(r)
	if err != nil {
		renderWizardError(w, r, err)
		return
	}
	if len(req.Services) == 0 || len(req.Doctors) == 0 {
		renderWizardError(w, r, fmt.Errorf("at least one service and one doctor are required"))
		return
	}

	days, err := rota.WorkingDays(req.Start, req.End)
	if err != nil {
		renderWizardError(w, r, err)
		return
	}
	if len(days) == 0 {
		renderWizardError(w, r, fmt.Errorf("date range contains no working days"))
		return
	}

	data := AvailabilityData{
		Start:       models.FormatYMD(req.Start),
		End:         models.FormatYMD(req.End),
		ServicesCSV: strings.Join(req.Services, ","),
		DoctorsText: strings.Join(req.Doctors, "\n"),
		Doctors:     req.Doctors,
		Days:        days,
	}
	render(w, r, "availability", data, "ui/templates/availability.html")
}

func handleCadenceStep(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	req, err := parseWizardBase(r)
	if err != nil {
		renderWizardError(w, r, err)
		return
	}

	data := CadenceData{
		Start:       models.FormatYMD(req.Start),
		End:         models.FormatYMD(req.End),
		ServicesCSV: strings.Join(req.Services, ","),
		DoctorsText: strings.Join(req.Doctors, "\n"),
		Services:    req.Services,
		Weekdays:    models.Workweek,
		Unavailable: r.Form["unavailable"],
	}
	render(w, r, "cadence", data, "ui/templates/cadence.html")
}

func handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	req, err := parseWizardBase(r)
	if err != nil {
		renderWizardError(w, r, err)
		return
	}
	req.Unavailable, err = parseUnavailable(r.Form["unavailable"])
	if err != nil {
		renderWizardError(w, r, err)
		return
	}
	req.Cadences, err = parseCadences(r, req.Services)
	if err != nil {
		renderWizardError(w, r, err)
		return
	}

	runSchedule(w, r, req)
}

func handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	file, _, err := r.FormFile("plan")
	if err != nil {
		http.Error(w, "Missing plan file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Reading plan file failed", http.StatusBadRequest)
		return
	}
	req, err := models.ParsePlan(data)
	if err != nil {
		renderWizardError(w, r, err)
		return
	}
	if days := int(req.End.Sub(req.Start)/(24*time.Hour)) + 1; days > cfg.Schedule.MaxRangeDays {
		renderWizardError(w, r, fmt.Errorf("date range spans %d days, maximum is %d", days, cfg.Schedule.MaxRangeDays))
		return
	}

	runSchedule(w, r, req)
}

// runSchedule runs the engine, tags and stores the result, and renders
// the schedule page.
func runSchedule(w http.ResponseWriter, r *http.Request, req *models.ScheduleRequest) {
	sched, err := engine.Run(r.Context(), req)
	if err != nil {
		renderWizardError(w, r, err)
		return
	}
	sched.RunID = uuid.NewString()
	sched.CreatedAt = time.Now().UTC()

	if err := runStore.SaveSchedule(r.Context(), sched); err != nil {
		logger.Error().Err(err).Str("run_id", sched.RunID).Msg("storing run failed")
		http.Error(w, "Storing run failed", http.StatusInternalServerError)
		return
	}

	render(w, r, "schedule", ScheduleData{Schedule: sched}, "ui/templates/schedule.html")
}

func renderWizardError(w http.ResponseWriter, r *http.Request, err error) {
	w.WriteHeader(http.StatusBadRequest)
	data := WizardData{
		Start:        r.FormValue("start"),
		End:          r.FormValue("end"),
		ServicesCSV:  r.FormValue("services"),
		DoctorsText:  r.FormValue("doctors"),
		MaxRangeDays: cfg.Schedule.MaxRangeDays,
		Error:        err.Error(),
	}
	render(w, r, "wizard", data, "ui/templates/wizard.html")
}

func handleRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := runStore.ListRuns(r.Context(), 50)
	if err != nil {
		logger.Error().Err(err).Msg("listing runs failed")
		http.Error(w, "Listing runs failed", http.StatusInternalServerError)
		return
	}
	render(w, r, "runs", RunsData{Runs: runs}, "ui/templates/runs.html")
}

func handleRunView(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Missing run id", http.StatusBadRequest)
		return
	}
	sched, err := runStore.GetSchedule(r.Context(), id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	render(w, r, "schedule", ScheduleData{Schedule: sched}, "ui/templates/schedule.html")
}

func handleExport(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("run")
	if id == "" {
		http.Error(w, "Missing run id", http.StatusBadRequest)
		return
	}
	sched, err := runStore.GetSchedule(r.Context(), id)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	var result *export.Result
	switch format := r.URL.Query().Get("format"); format {
	case "csv", "":
		result, err = exporter.ToCSV(sched)
	case "json":
		result, err = exporter.ToJSON(sched)
	default:
		http.Error(w, fmt.Sprintf("Unknown format %q", format), http.StatusBadRequest)
		return
	}
	if err != nil {
		logger.Error().Err(err).Str("run_id", id).Msg("export failed")
		http.Error(w, "Export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.Write(result.Data)
}
