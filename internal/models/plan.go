package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Plan file format consumed by the CLI and the upload endpoint:
//
//	start: 2026-09-07
//	end: 2026-09-18
//	services: [CT, MRI]
//	doctors:
//	  - Dr. Smith
//	  - Dr. Lee
//	unavailable:
//	  Dr. Smith: [2026-09-08]
//	cadences:
//	  MRI:
//	    week0: [Mon, Wed, Fri]
//	    week1: [Tue, Thu]
//	    overrides:
//	      2026-09-10: false
//	  CT:
//	    weekdays: [Mon, Tue, Wed, Thu, Fri]
//
// "weekdays" is the single-week form and expands to identical week-0
// and week-1 sets. It cannot be combined with week0/week1.
type planFile struct {
	Start       string                 `yaml:"start"`
	End         string                 `yaml:"end"`
	Services    []string               `yaml:"services"`
	Doctors     []string               `yaml:"doctors"`
	Unavailable map[string][]string    `yaml:"unavailable"`
	Cadences    map[string]planCadence `yaml:"cadences"`
}

type planCadence struct {
	Weekdays  []string        `yaml:"weekdays"`
	Week0     []string        `yaml:"week0"`
	Week1     []string        `yaml:"week1"`
	Overrides map[string]bool `yaml:"overrides"`
}

// ParsePlan decodes a YAML plan into a ScheduleRequest. The result is
// parsed but not validated; callers run Validate as part of the engine
// invocation.
func ParsePlan(data []byte) (*ScheduleRequest, error) {
	var pf planFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parse plan: %w", err)
	}

	start, err := ParseYMD(pf.Start)
	if err != nil {
		return nil, fmt.Errorf("plan start: %w", err)
	}
	end, err := ParseYMD(pf.End)
	if err != nil {
		return nil, fmt.Errorf("plan end: %w", err)
	}

	req := &ScheduleRequest{
		Start:    start,
		End:      end,
		Services: pf.Services,
		Doctors:  pf.Doctors,
	}

	if len(pf.Unavailable) > 0 {
		req.Unavailable = make(map[string]map[string]bool, len(pf.Unavailable))
		for doctor, dates := range pf.Unavailable {
			set := make(map[string]bool, len(dates))
			for _, ymd := range dates {
				if _, err := ParseYMD(ymd); err != nil {
					return nil, fmt.Errorf("plan unavailability for %s: %w", doctor, err)
				}
				set[ymd] = true
			}
			req.Unavailable[doctor] = set
		}
	}

	if len(pf.Cadences) > 0 {
		req.Cadences = make(map[string]Cadence, len(pf.Cadences))
		for service, pc := range pf.Cadences {
			cadence, err := pc.toCadence()
			if err != nil {
				return nil, fmt.Errorf("plan cadence for %s: %w", service, err)
			}
			req.Cadences[service] = cadence
		}
	}

	return req, nil
}

// LoadPlan reads and parses a plan file from disk.
func LoadPlan(path string) (*ScheduleRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	return ParsePlan(data)
}

func (pc planCadence) toCadence() (Cadence, error) {
	if len(pc.Weekdays) > 0 && (len(pc.Week0) > 0 || len(pc.Week1) > 0) {
		return Cadence{}, fmt.Errorf("weekdays cannot be combined with week0/week1")
	}

	var cadence Cadence
	if len(pc.Weekdays) > 0 {
		set, err := ParseWeekdaySet(pc.Weekdays)
		if err != nil {
			return Cadence{}, err
		}
		cadence = SingleWeekCadence(set)
	} else {
		w0, err := ParseWeekdaySet(pc.Week0)
		if err != nil {
			return Cadence{}, err
		}
		w1, err := ParseWeekdaySet(pc.Week1)
		if err != nil {
			return Cadence{}, err
		}
		cadence = Cadence{Weeks: [2]WeekdaySet{w0, w1}}
	}

	if len(pc.Overrides) > 0 {
		cadence.Overrides = make(map[string]bool, len(pc.Overrides))
		for ymd, on := range pc.Overrides {
			if _, err := ParseYMD(ymd); err != nil {
				return Cadence{}, fmt.Errorf("override: %w", err)
			}
			cadence.Overrides[ymd] = on
		}
	}
	return cadence, nil
}
