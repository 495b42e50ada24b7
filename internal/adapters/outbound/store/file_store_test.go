package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/abdidvp/storediag/internal/adapters/outbound/store"
	"github.com/abdidvp/storediag/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := store.NewFileStore(dir)

	got, err := s.Load(ctx, "S001")
	require.NoError(t, err)
	assert.Nil(t, got)

	res := sampleResult(t, "S001")
	require.NoError(t, s.Save(ctx, "S001", res))

	got, err = s.Load(ctx, "S001")
	require.NoError(t, err)
	assert.Equal(t, res, got)

	data, err := os.ReadFile(filepath.Join(dir, "results", "S001.json"))
	require.NoError(t, err)
	want, err := store.Marshal(res)
	require.NoError(t, err)
	assert.Equal(t, want, data)
}

func TestFileStore_LastWriterWins(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := store.NewFileStore(dir)

	require.NoError(t, s.Save(ctx, "S001", sampleResult(t, "S001")))
	healthy := &domain.DiagnosticResult{
		StoreCode:       "S001",
		Issues:          []domain.Issue{},
		Recommendations: []domain.Recommendation{},
		OverallHealth:   domain.HealthHealthy,
	}
	require.NoError(t, s.Save(ctx, "S001", healthy))

	got, err := s.Load(ctx, "S001")
	require.NoError(t, err)
	assert.Equal(t, healthy, got)

	entries, err := os.ReadDir(filepath.Join(dir, "results"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestFileStore_RejectsPathCodes(t *testing.T) {
	s := store.NewFileStore(t.TempDir())
	for _, code := range []string{"", "..", "a/b", `a\b`} {
		assert.Error(t, s.Save(context.Background(), code, sampleResult(t, "x")), code)
		_, err := s.Load(context.Background(), code)
		assert.Error(t, err, code)
	}
}
