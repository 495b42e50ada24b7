package scoring_test

import (
	"errors"
	"testing"

	"github.com/abdidvp/storediag/internal/domain"
	"github.com/abdidvp/storediag/internal/domain/scoring"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		value, min, max, want float64
	}{
		{50, 0, 100, 50},
		{0, -20, 20, 50},
		{750, 0, 1500, 50},
		{150, 0, 100, 150},
		{-10, 0, 100, -10},
	}
	for _, tt := range tests {
		got, err := scoring.Normalize(tt.value, tt.min, tt.max)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 0.0001, "normalize(%v, %v, %v)", tt.value, tt.min, tt.max)
	}
}

func TestNormalize_InvalidRange(t *testing.T) {
	_, err := scoring.Normalize(5, 10, 10)
	var re *domain.InvalidRangeError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, 10.0, re.Min)

	_, err = scoring.Normalize(5, 20, 10)
	assert.Error(t, err)
}

func TestGrader_DefaultBands(t *testing.T) {
	g := scoring.DefaultGrader()
	tests := []struct {
		score float64
		grade string
	}{
		{100, "A+"}, {90, "A+"}, {89.9, "B+"}, {80, "B+"}, {75, "C+"}, {70, "C+"}, {69.9, "F"}, {0, "F"}, {-5, "F"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.grade, g.Grade(tt.score), "score %v", tt.score)
	}
}

func TestNewGrader_RejectsBadBands(t *testing.T) {
	_, err := scoring.NewGrader(nil)
	assert.Error(t, err)

	_, err = scoring.NewGrader([]domain.GradeBand{{Min: 50, Grade: "B"}, {Min: 50, Grade: "C"}})
	var ce *domain.ConfigError
	assert.True(t, errors.As(err, &ce))
}

func TestNewGrader_CopiesBands(t *testing.T) {
	bands := []domain.GradeBand{{Min: 50, Grade: "P"}}
	g, err := scoring.NewGrader(bands)
	require.NoError(t, err)
	bands[0].Grade = "X"
	assert.Equal(t, "P", g.Grade(60))
}

func TestGrader_Monotonic(t *testing.T) {
	g := scoring.DefaultGrader()
	rank := map[string]int{}
	bands := domain.DefaultGradeBands()
	for i, b := range bands {
		rank[b.Grade] = len(bands) - i
	}
	rank[domain.FloorGrade] = 0

	properties := gopter.NewProperties(gopter.DefaultTestParameters())
	properties.Property("higher score never gets a lower grade", prop.ForAll(
		func(a, b float64) bool {
			if a > b {
				a, b = b, a
			}
			return rank[g.Grade(a)] <= rank[g.Grade(b)]
		},
		gen.Float64Range(-50, 150),
		gen.Float64Range(-50, 150),
	))
	properties.TestingRun(t)
}

func TestScoreMetrics_Complete(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())
	properties.Property("every input key is scored", prop.ForAll(
		func(m map[string]float64) bool {
			scored, err := scoring.ScoreMetrics(domain.Indices(m), scoring.DefaultGrader(),
				domain.ScoreRange{Min: 0, Max: 100}, domain.DefaultWeights())
			if err != nil || len(scored) != len(m) {
				return false
			}
			for k, v := range m {
				s, ok := scored[k]
				if !ok || s.Name != k || s.Value != v || s.Grade == "" || s.Weight <= 0 {
					return false
				}
			}
			return true
		},
		gen.MapOf(gen.Identifier(), gen.Float64Range(0, 100)),
	))
	properties.TestingRun(t)
}

func TestScoreMetrics_Values(t *testing.T) {
	scored, err := scoring.ScoreMetrics(domain.Indices{"cvi": 92, "asi": 50}, scoring.DefaultGrader(),
		domain.ScoreRange{Min: 0, Max: 100}, map[string]float64{"cvi": 0.4})
	require.NoError(t, err)

	assert.Equal(t, "A+", scored["cvi"].Grade)
	assert.InDelta(t, 92, scored["cvi"].Score, 0.001)
	assert.Equal(t, 0.4, scored["cvi"].Weight)
	assert.Equal(t, "F", scored["asi"].Grade)
	assert.Equal(t, domain.DefaultIndexWeight, scored["asi"].Weight)
}

func TestScoreMetrics_InvalidRange(t *testing.T) {
	_, err := scoring.ScoreMetrics(domain.Indices{"cvi": 1}, scoring.DefaultGrader(), domain.ScoreRange{}, nil)
	assert.Error(t, err)
}

func TestComposite(t *testing.T) {
	scored, err := scoring.ScoreMetrics(domain.Indices{"cvi": 80, "asi": 60, "sci": 40, "gmi": 20},
		scoring.DefaultGrader(), domain.ScoreRange{Min: 0, Max: 100}, domain.DefaultWeights())
	require.NoError(t, err)
	assert.InDelta(t, 50, scoring.Composite(scored), 0.001)
}

func TestScoreMetrics_GradesRoundedScore(t *testing.T) {
	scored, err := scoring.ScoreMetrics(domain.Indices{"cvi": 89.96, "asi": 89.94}, scoring.DefaultGrader(),
		domain.ScoreRange{Min: 0, Max: 100}, domain.DefaultWeights())
	require.NoError(t, err)

	assert.Equal(t, 90.0, scored["cvi"].Score)
	assert.Equal(t, "A+", scored["cvi"].Grade)
	assert.Equal(t, 89.9, scored["asi"].Score)
	assert.Equal(t, "B+", scored["asi"].Grade)
}
