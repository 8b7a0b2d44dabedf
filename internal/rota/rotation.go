package rota

// Rotation is the ordered priority sequence of doctors for one service.
// The order, not doctor identity, breaks ties among equally fair
// candidates: a doctor passed over on earlier days sits nearer the
// front and is preferred next. Doctors never enter or leave the
// sequence during a run.
type Rotation struct {
	order []string
}

// NewRotation starts a rotation in doctor-list order.
func NewRotation(doctors []string) *Rotation {
	order := make([]string, len(doctors))
	copy(order, doctors)
	return &Rotation{order: order}
}

// Candidate is a doctor still eligible for a service today, carrying
// its current rotation position as the tie-break key.
type Candidate struct {
	Doctor string
	Index  int
}

// Candidates filters the rotation to doctors available today and not
// already used for another service, preserving rotation order.
func (r *Rotation) Candidates(available, used map[string]bool) []Candidate {
	var out []Candidate
	for i, doctor := range r.order {
		if available[doctor] && !used[doctor] {
			out = append(out, Candidate{Doctor: doctor, Index: i})
		}
	}
	return out
}

// Advance moves the chosen doctor to the back of the sequence,
// preserving the relative order of everyone else.
func (r *Rotation) Advance(doctor string) {
	for i, d := range r.order {
		if d == doctor {
			r.order = append(append(r.order[:i:i], r.order[i+1:]...), doctor)
			return
		}
	}
}

// Order returns a copy of the current sequence.
func (r *Rotation) Order() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
