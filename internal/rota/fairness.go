package rota

// FairnessTracker counts flexible days per doctor: days the doctor was
// available but assigned to no service. Counters only move at day
// boundaries and never decrease. A higher count makes a doctor win ties
// for the next assignment, pulling them back toward parity.
type FairnessTracker struct {
	counts map[string]int
}

func NewFairnessTracker(doctors []string) *FairnessTracker {
	counts := make(map[string]int, len(doctors))
	for _, d := range doctors {
		counts[d] = 0
	}
	return &FairnessTracker{counts: counts}
}

// Count returns the flexible days accrued so far by doctor.
func (t *FairnessTracker) Count(doctor string) int {
	return t.counts[doctor]
}

// RecordFlexible increments the counter of each listed doctor by one.
// Called once per day, after all services are resolved.
func (t *FairnessTracker) RecordFlexible(doctors []string) {
	for _, d := range doctors {
		t.counts[d]++
	}
}

// Totals returns a copy of the final counters.
func (t *FairnessTracker) Totals() map[string]int {
	out := make(map[string]int, len(t.counts))
	for d, n := range t.counts {
		out[d] = n
	}
	return out
}
