package scoring

import (
	"math"

	"github.com/abdidvp/storediag/internal/domain"
)

// Output range of Normalize.
const (
	OutputMin = 0.0
	OutputMax = 100.0
)

// Normalize rescales value from [min, max] into [OutputMin, OutputMax].
// Values outside [min, max] land outside the output range; callers clamp if they need to.
func Normalize(value, min, max float64) (float64, error) {
	if min >= max {
		return 0, &domain.InvalidRangeError{Min: min, Max: max}
	}
	return OutputMin + (value-min)/(max-min)*(OutputMax-OutputMin), nil
}

// Grader maps scores to letter grades using a descending band ladder.
type Grader struct {
	bands []domain.GradeBand
}

// NewGrader validates bands and returns a grader over a private copy of them.
func NewGrader(bands []domain.GradeBand) (*Grader, error) {
	if err := domain.ValidateGradeBands(bands); err != nil {
		return nil, err
	}
	cp := make([]domain.GradeBand, len(bands))
	copy(cp, bands)
	return &Grader{bands: cp}, nil
}

// DefaultGrader grades with domain.DefaultGradeBands.
func DefaultGrader() *Grader {
	return &Grader{bands: domain.DefaultGradeBands()}
}

// Grade returns the first band whose minimum the score reaches, else the floor grade.
func (g *Grader) Grade(score float64) string {
	for _, b := range g.bands {
		if score >= b.Min {
			return b.Grade
		}
	}
	return domain.FloorGrade
}

// ScoreMetrics normalizes and grades every index. The grade is taken from the
// reported one-decimal score. Every key of indices is present
// in the result. Missing weights fall back to domain.DefaultIndexWeight.
func ScoreMetrics(indices domain.Indices, grader *Grader, rng domain.ScoreRange, weights map[string]float64) (domain.ScoredIndices, error) {
	out := make(domain.ScoredIndices, len(indices))
	for name, value := range indices {
		score, err := Normalize(value, rng.Min, rng.Max)
		if err != nil {
			return nil, err
		}
		w, ok := weights[name]
		if !ok {
			w = domain.DefaultIndexWeight
		}
		score = round1(score)
		out[name] = domain.IndexScore{
			Name:   name,
			Value:  value,
			Score:  score,
			Grade:  grader.Grade(score),
			Weight: w,
		}
	}
	return out, nil
}

// Composite is the weighted average score of the scored indices.
func Composite(scored domain.ScoredIndices) float64 {
	return domain.ComputeComposite(scored)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
