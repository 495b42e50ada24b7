package application

import (
	"fmt"

	"github.com/abdidvp/storediag/internal/domain"
	"github.com/abdidvp/storediag/internal/domain/diagnosis"
	"github.com/abdidvp/storediag/internal/domain/scoring"
)

// Pipeline is a validated DiagnosticsConfig turned into ready-to-run components.
// It is built once per process and shared by every service.
type Pipeline struct {
	Config    domain.DiagnosticsConfig
	Grader    *scoring.Grader
	Diagnoser *diagnosis.Diagnoser
}

// NewPipeline validates cfg and builds its components.
func NewPipeline(cfg domain.DiagnosticsConfig) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	grader, err := scoring.NewGrader(cfg.GradeBands)
	if err != nil {
		return nil, err
	}
	d, err := diagnosis.New(cfg)
	if err != nil {
		return nil, err
	}
	return &Pipeline{Config: cfg, Grader: grader, Diagnoser: d}, nil
}

// Measurement is a report reduced to indices and their grades.
type Measurement struct {
	Indices   domain.Indices       `json:"indices"`
	Scores    domain.ScoredIndices `json:"scores"`
	Composite float64              `json:"composite"`
}

// Measure calculates and grades every index of r.
func (p *Pipeline) Measure(r *domain.Report) (Measurement, error) {
	indices := scoring.CalculateAll(r)
	scores, err := scoring.ScoreMetrics(indices, p.Grader, p.Config.ScoreRange, p.Config.Weights)
	if err != nil {
		return Measurement{}, fmt.Errorf("scoring metrics: %w", err)
	}
	return Measurement{Indices: indices, Scores: scores, Composite: scoring.Composite(scores)}, nil
}
