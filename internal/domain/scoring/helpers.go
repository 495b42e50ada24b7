package scoring

import "github.com/abdidvp/storediag/internal/domain"

// measure is one raw report input feeding an index.
type measure struct {
	key      string
	sections []string
	min, max float64
	inverted bool // lower raw values are better
}

// lookup returns the first value found for m across its sections.
func (m measure) lookup(r *domain.Report) (float64, bool) {
	for _, name := range m.sections {
		if v, ok := r.Section(name).Float(m.key); ok {
			return v, true
		}
	}
	return 0, false
}

// subScore normalizes v into [0, 100], clamped, inverted when lower is better.
func (m measure) subScore(v float64) float64 {
	s, err := Normalize(v, m.min, m.max)
	if err != nil {
		return NeutralScore
	}
	s = clamp(s, OutputMin, OutputMax)
	if m.inverted {
		s = OutputMax - s
	}
	return s
}

func clamp(v, lo, hi float64) float64 {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}

// average scores every present measure and averages them.
// No present measure yields NeutralScore.
func average(r *domain.Report, measures []measure) float64 {
	total, n := 0.0, 0
	for _, m := range measures {
		v, ok := m.lookup(r)
		if !ok {
			continue
		}
		total += m.subScore(v)
		n++
	}
	if n == 0 {
		return NeutralScore
	}
	return round1(total / float64(n))
}
