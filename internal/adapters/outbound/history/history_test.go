package history_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/abdidvp/storediag/internal/adapters/outbound/history"
	"github.com/abdidvp/storediag/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_AppendAndLoad(t *testing.T) {
	h := history.New(t.TempDir())

	entry := domain.RunEntry{
		RunID:          "r1",
		StoreCode:      "S001",
		Kind:           domain.RunKindDiagnose,
		OverallHealth:  domain.HealthCritical,
		Issues:         3,
		ConfigRevision: "abc1234",
		Timestamp:      "2026-02-25T10:00:00Z",
	}
	require.NoError(t, h.Append("S001", entry))

	entries, err := h.Load("S001")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry, entries[0])
}

func TestHistory_KeepsOrderPerStore(t *testing.T) {
	h := history.New(t.TempDir())

	require.NoError(t, h.Append("S001", domain.RunEntry{RunID: "r1", OverallHealth: domain.HealthCritical}))
	require.NoError(t, h.Append("S002", domain.RunEntry{RunID: "x1", OverallHealth: domain.HealthHealthy}))
	require.NoError(t, h.Append("S001", domain.RunEntry{RunID: "r2", OverallHealth: domain.HealthWarning}))

	entries, err := h.Load("S001")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "r1", entries[0].RunID)
	assert.Equal(t, "r2", entries[1].RunID)

	other, err := h.Load("S002")
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestHistory_LoadEmpty(t *testing.T) {
	h := history.New(t.TempDir())
	entries, err := h.Load("S001")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHistory_ConcurrentAppends(t *testing.T) {
	h := history.New(t.TempDir())
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, h.Append("S001", domain.RunEntry{RunID: fmt.Sprint(i)}))
		}(i)
	}
	wg.Wait()

	entries, err := h.Load("S001")
	require.NoError(t, err)
	assert.Len(t, entries, 20)
}

func TestHistory_RejectsPathCodes(t *testing.T) {
	h := history.New(t.TempDir())
	assert.Error(t, h.Append("../x", domain.RunEntry{}))
	_, err := h.Load("")
	assert.Error(t, err)
}
