package rota

import "radiology-roster/internal/models"

// cadenceResolver answers "is this service staffed on this day". An
// explicit per-date override wins; otherwise the weekday set of the
// day's cadence week decides. Services without a configured cadence get
// the Mon–Fri default, which keeps single-week configurations behaving
// exactly as before biweekly support existed.
type cadenceResolver struct {
	cadences map[string]models.Cadence
}

func newCadenceResolver(cadences map[string]models.Cadence) cadenceResolver {
	return cadenceResolver{cadences: cadences}
}

func (r cadenceResolver) isOn(service string, day Day) bool {
	cadence, ok := r.cadences[service]
	if !ok {
		cadence = models.DefaultCadence()
	}
	if forced, ok := cadence.Overrides[models.FormatYMD(day.Date)]; ok {
		return forced
	}
	return cadence.Weeks[day.CadenceWeek].Contains(day.Weekday)
}
