package main

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"radiology-roster/internal/config"
	"radiology-roster/internal/export"
	"radiology-roster/internal/models"
	"radiology-roster/internal/rota"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg = &config.Config{}
	cfg.Schedule.MaxRangeDays = 366
	logger = zerolog.Nop()
	engine = rota.NewEngine(logger)
	exporter = export.NewService(logger)
	runStore = NewMemoryStore()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			handleIndex(w, r)
		case "/schedule/availability":
			handleAvailabilityStep(w, r)
		case "/schedule/cadence":
			handleCadenceStep(w, r)
		case "/schedule":
			handleGenerate(w, r)
		case "/schedule/upload":
			handleUpload(w, r)
		case "/runs":
			handleRuns(w, r)
		case "/runs/view":
			handleRunView(w, r)
		case "/export":
			handleExport(w, r)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestAPI_GenerateAndExport(t *testing.T) {
	ts := newTestServer(t)

	// Custom client to not follow redirects
	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	resp, err := client.PostForm(ts.URL+"/schedule", url.Values{
		"start":       {"2026-09-07"},
		"end":         {"2026-09-11"},
		"services":    {"Ultrasound,Fluoroscopy"},
		"doctors":     {"Ana\nBen\nCara"},
		"unavailable": {"Cara|2026-09-09"},
	})
	if err != nil {
		t.Fatalf("Failed to generate schedule via API: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 for generate, got %d. Body: %s", resp.StatusCode, body)
	}

	runs, err := runStore.ListRuns(t.Context(), 10)
	if err != nil {
		t.Fatalf("Failed to list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("Expected 1 stored run, got %d", len(runs))
	}
	runID := runs[0].RunID
	if runID == "" {
		t.Fatal("Stored run has no ID")
	}

	sched, err := runStore.GetSchedule(t.Context(), runID)
	if err != nil {
		t.Fatalf("Failed to load stored run: %v", err)
	}
	if len(sched.Days) != 5 {
		t.Fatalf("Expected 5 working days, got %d", len(sched.Days))
	}
	if got := sched.Days[0].Outcomes["Ultrasound"]; got != "Ana" {
		t.Errorf("Expected Ana on Ultrasound day 1, got %s", got)
	}
	if got := sched.Days[2].Outcomes["Ultrasound"]; got == "Cara" {
		t.Errorf("Cara was assigned while marked out")
	}

	resp, err = client.Get(ts.URL + "/export?run=" + runID + "&format=csv")
	if err != nil {
		t.Fatalf("Failed to export CSV: %v", err)
	}
	csvBody, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 for export, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Expected text/csv content type, got %s", ct)
	}
	firstLine := strings.SplitN(string(csvBody), "\n", 2)[0]
	if strings.TrimSpace(firstLine) != "Date,Weekday,Ultrasound,Fluoroscopy,Flexible" {
		t.Errorf("Unexpected CSV header: %s", firstLine)
	}

	resp, err = client.Get(ts.URL + "/export?run=" + runID + "&format=json")
	if err != nil {
		t.Fatalf("Failed to export JSON: %v", err)
	}
	jsonBody, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	var roundTrip models.Schedule
	if err := roundTrip.UnmarshalJSON(jsonBody); err != nil {
		t.Fatalf("Exported JSON does not round-trip: %v", err)
	}
	if roundTrip.RunID != runID {
		t.Errorf("Expected run ID %s in export, got %s", runID, roundTrip.RunID)
	}
}

func TestAPI_GenerateRejectsBadInput(t *testing.T) {
	ts := newTestServer(t)

	cases := []struct {
		name string
		form url.Values
	}{
		{"EndBeforeStart", url.Values{
			"start":    {"2026-09-11"},
			"end":      {"2026-09-07"},
			"services": {"Ultrasound"},
			"doctors":  {"Ana"},
		}},
		{"NoDoctors", url.Values{
			"start":    {"2026-09-07"},
			"end":      {"2026-09-11"},
			"services": {"Ultrasound"},
			"doctors":  {""},
		}},
		{"MalformedDate", url.Values{
			"start":    {"07/09/2026"},
			"end":      {"2026-09-11"},
			"services": {"Ultrasound"},
			"doctors":  {"Ana"},
		}},
		{"MalformedUnavailable", url.Values{
			"start":       {"2026-09-07"},
			"end":         {"2026-09-11"},
			"services":    {"Ultrasound"},
			"doctors":     {"Ana"},
			"unavailable": {"Ana-2026-09-08"},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.PostForm(ts.URL+"/schedule", tc.form)
			if err != nil {
				t.Fatalf("Request failed: %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", resp.StatusCode)
			}
		})
	}

	runs, err := runStore.ListRuns(t.Context(), 10)
	if err != nil {
		t.Fatalf("Failed to list runs: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("Expected no stored runs after rejected input, got %d", len(runs))
	}
}

func TestAPI_MaxRangeDays(t *testing.T) {
	ts := newTestServer(t)
	cfg.Schedule.MaxRangeDays = 14

	resp, err := http.PostForm(ts.URL+"/schedule", url.Values{
		"start":    {"2026-09-07"},
		"end":      {"2026-10-30"},
		"services": {"Ultrasound"},
		"doctors":  {"Ana\nBen"},
	})
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for oversized range, got %d", resp.StatusCode)
	}
}

func TestAPI_UploadPlan(t *testing.T) {
	ts := newTestServer(t)

	plan := `start: 2026-09-07
end: 2026-09-18
services:
  - Ultrasound
  - Fluoroscopy
doctors:
  - Ana
  - Ben
  - Cara
cadences:
  Fluoroscopy:
    week0: [Mon, Wed, Fri]
    week1: [Tue, Thu]
`

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("plan", "plan.yaml")
	if err != nil {
		t.Fatalf("Failed to build multipart body: %v", err)
	}
	if _, err := fw.Write([]byte(plan)); err != nil {
		t.Fatalf("Failed to write plan: %v", err)
	}
	mw.Close()

	resp, err := http.Post(ts.URL+"/schedule/upload", mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("Failed to upload plan: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 for upload, got %d. Body: %s", resp.StatusCode, body)
	}

	runs, err := runStore.ListRuns(t.Context(), 10)
	if err != nil {
		t.Fatalf("Failed to list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("Expected 1 stored run, got %d", len(runs))
	}
	sched, err := runStore.GetSchedule(t.Context(), runs[0].RunID)
	if err != nil {
		t.Fatalf("Failed to load stored run: %v", err)
	}
	if len(sched.Days) != 10 {
		t.Fatalf("Expected 10 working days, got %d", len(sched.Days))
	}
	// 2026-09-08 is a Tuesday in cadence week 0, so Fluoroscopy is dark.
	if got := sched.Days[1].Outcomes["Fluoroscopy"]; got != models.OutcomeOff {
		t.Errorf("Expected OFF for Fluoroscopy on Tuesday of week 0, got %s", got)
	}
}

func TestAPI_RunViewNotFound(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/runs/view?id=nope")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown run, got %d", resp.StatusCode)
	}
}
