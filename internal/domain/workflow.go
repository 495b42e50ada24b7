package domain

import (
	"fmt"
	"time"
)

// Workflow node names, in execution order.
const (
	NodeGenerateReport      = "generateReport"
	NodeCalculateMetrics    = "calculateMetrics"
	NodeRunDiagnostic       = "runDiagnostic"
	NodeLoadCustomerContext = "loadCustomerContext"
	NodeExtractInsights     = "extractInsights"
	NodeMatchTargets        = "matchTargets"
	NodeGenerateStrategies  = "generateStrategies"
	NodeEstimateKPI         = "estimateKpi"
	NodeFinalize            = "finalize"
)

// NodeError records a workflow node that failed. The workflow keeps going.
type NodeError struct {
	Node    string `json:"node"`
	Message string `json:"message"`
}

func (e NodeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Node, e.Message)
}

// PipelineState is threaded through every workflow node. Output fields always hold
// a usable value, even after the node that fills them failed.
type PipelineState struct {
	RunID          string            `json:"run_id"`
	StoreCode      string            `json:"store_code"`
	Report         *Report           `json:"report"`
	Indices        Indices           `json:"indices"`
	Scores         ScoredIndices     `json:"scores"`
	Composite      float64           `json:"composite"`
	Diagnostic     *DiagnosticResult `json:"diagnostic"`
	Customer       CustomerContext   `json:"customer"`
	Insights       []Insight         `json:"insights"`
	TargetSegments []TargetSegment   `json:"target_segments"`
	Strategies     []Strategy        `json:"strategies"`
	KPIEstimates   []KPIEstimate     `json:"kpi_estimates"`
	Errors         []NodeError       `json:"errors"`
	Completed      bool              `json:"completed"`
	Summary        string            `json:"summary"`
	StartedAt      time.Time         `json:"started_at"`
	FinishedAt     time.Time         `json:"finished_at"`
}

// NewPipelineState returns a state whose output fields already hold their defaults.
func NewPipelineState(runID, storeCode string) *PipelineState {
	return &PipelineState{
		RunID:          runID,
		StoreCode:      storeCode,
		Report:         &Report{StoreCode: storeCode},
		Indices:        ZeroIndices(),
		Scores:         ScoredIndices{},
		Diagnostic:     EmptyDiagnostic(storeCode),
		Customer:       CustomerContext{StoreCode: storeCode, Segments: []CustomerSegment{}},
		Insights:       []Insight{},
		TargetSegments: []TargetSegment{},
		Strategies:     []Strategy{},
		KPIEstimates:   []KPIEstimate{},
		Errors:         []NodeError{},
	}
}

// AddError appends a node error.
func (s *PipelineState) AddError(node string, err error) {
	s.Errors = append(s.Errors, NodeError{Node: node, Message: err.Error()})
}

// Failed reports whether any node recorded an error.
func (s *PipelineState) Failed() bool { return len(s.Errors) > 0 }

// ErrorsFor returns the errors recorded by one node.
func (s *PipelineState) ErrorsFor(node string) []NodeError {
	var out []NodeError
	for _, e := range s.Errors {
		if e.Node == node {
			out = append(out, e)
		}
	}
	return out
}

// ZeroIndices returns all four indices at zero.
func ZeroIndices() Indices {
	ix := make(Indices, len(IndexNames))
	for _, name := range IndexNames {
		ix[name] = 0
	}
	return ix
}

// EmptyDiagnostic is a healthy result with nothing to report.
func EmptyDiagnostic(storeCode string) *DiagnosticResult {
	return &DiagnosticResult{
		StoreCode:       storeCode,
		Issues:          []Issue{},
		Recommendations: []Recommendation{},
		OverallHealth:   HealthHealthy,
	}
}
