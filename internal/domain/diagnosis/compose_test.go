package diagnosis_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/abdidvp/storediag/internal/domain"
	"github.com/abdidvp/storediag/internal/domain/diagnosis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issuesOf(sevs ...domain.Severity) []domain.Issue {
	out := make([]domain.Issue, len(sevs))
	for i, s := range sevs {
		out[i] = domain.Issue{IssueType: "r", Severity: s}
	}
	return out
}

func TestHealthOf_Boundaries(t *testing.T) {
	c, w, i := domain.SeverityCritical, domain.SeverityWarning, domain.SeverityInfo
	tests := []struct {
		name   string
		issues []domain.Issue
		want   domain.Health
	}{
		{"none", nil, domain.HealthHealthy},
		{"one critical", issuesOf(c), domain.HealthCritical},
		{"one warning", issuesOf(w), domain.HealthAttentionNeeded},
		{"two warnings", issuesOf(w, w), domain.HealthAttentionNeeded},
		{"three warnings", issuesOf(w, w, w), domain.HealthWarning},
		{"info only", issuesOf(i, i, i), domain.HealthHealthy},
		{"critical beats warnings", issuesOf(w, w, w, c), domain.HealthCritical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, diagnosis.HealthOf(tt.issues))
		})
	}
}

func TestCompose_LengthMismatch(t *testing.T) {
	triggered := defaultEngine(t).Evaluate(domain.Indices{"cvi": 30})
	_, err := diagnosis.Compose("S1", triggered, []string{"only one"}, nil)
	assert.ErrorIs(t, err, domain.ErrLengthMismatch)
}

func diagnose(t *testing.T, indices domain.Indices) *domain.DiagnosticResult {
	t.Helper()
	d, err := diagnosis.New(domain.DefaultConfig())
	require.NoError(t, err)

	triggered := d.Engine.Evaluate(indices)
	explanations := d.Explainer.GenerateAll(triggered)
	recs := d.Recommender.Prioritize(d.Recommender.Generate(triggered), indices)
	res, err := diagnosis.Compose("S1", triggered, explanations, recs)
	require.NoError(t, err)
	return res
}

func TestCompose_ScenarioA(t *testing.T) {
	res := diagnose(t, domain.Indices{"cvi": 50, "asi": 85, "sci": 75, "gmi": 70})
	require.Len(t, res.Issues, 1)
	assert.Equal(t, "low_cvi", res.Issues[0].IssueType)
	assert.Equal(t, "cvi", res.Issues[0].Metric)
	assert.Contains(t, res.Issues[0].Description, "50.0")
	assert.Equal(t, domain.HealthAttentionNeeded, res.OverallHealth)
	assert.NotEmpty(t, res.Recommendations)
}

func TestCompose_ScenarioB(t *testing.T) {
	res := diagnose(t, domain.Indices{"cvi": 30, "asi": 85, "sci": 75, "gmi": 70})
	require.Len(t, res.Issues, 2)
	assert.Equal(t, domain.HealthCritical, res.OverallHealth)
	assert.Equal(t, domain.SeverityCritical, res.Recommendations[0].Severity)
	assert.Equal(t, 1, res.Recommendations[0].Priority)
}

func TestCompose_ScenarioC(t *testing.T) {
	res := diagnose(t, domain.Indices{"cvi": 80, "asi": 80, "sci": 80, "gmi": 80})
	assert.Empty(t, res.Issues)
	assert.Empty(t, res.Recommendations)
	assert.Equal(t, domain.HealthHealthy, res.OverallHealth)

	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"issues":[]`)
	assert.Contains(t, string(data), `"recommendations":[]`)
}

func TestCompose_Idempotent(t *testing.T) {
	indices := domain.Indices{"cvi": 30, "asi": 45, "sci": 55, "gmi": 70}
	a, err := json.Marshal(diagnose(t, indices))
	require.NoError(t, err)
	b, err := json.Marshal(diagnose(t, indices))
	require.NoError(t, err)
	assert.True(t, bytes.Equal(a, b))
}

func TestNew_RejectsBadConfig(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.Explanations = map[string]string{"low_cvi": "nothing to substitute"}
	_, err := diagnosis.New(cfg)
	assert.Error(t, err)
}
