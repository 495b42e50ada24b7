package cli_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnoseCommand_SingleStore(t *testing.T) {
	e := newEnv(t)
	out, err := e.run(t, "diagnose", "S001")
	require.NoError(t, err)

	assert.Contains(t, out, "Store S001")
	assert.Contains(t, out, "CRITICAL")
	assert.FileExists(t, filepath.Join(e.dataDir, "results", "S001.json"))
}

func TestDiagnoseCommand_JSON(t *testing.T) {
	e := newEnv(t)
	out, err := e.run(t, "diagnose", "S001", "S002", "--json")
	require.NoError(t, err)

	var outcomes []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &outcomes))
	require.Len(t, outcomes, 2)
	assert.Equal(t, "S001", outcomes[0]["store_code"])
	assert.Equal(t, "S002", outcomes[1]["store_code"])

	result, ok := outcomes[1]["result"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "healthy", result["overall_health"])
}

func TestDiagnoseCommand_All(t *testing.T) {
	e := newEnv(t)
	_, err := e.run(t, "diagnose", "--all")
	require.NoError(t, err)

	for _, code := range []string{"S001", "S002", "S003"} {
		assert.FileExists(t, filepath.Join(e.dataDir, "results", code+".json"))
	}
}

func TestDiagnoseCommand_CIFailsOnCritical(t *testing.T) {
	e := newEnv(t)
	_, err := e.run(t, "diagnose", "S001", "--ci")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "critical")

	_, err = e.run(t, "diagnose", "S002", "--ci")
	assert.NoError(t, err)
}

func TestDiagnoseCommand_UnknownStoreFails(t *testing.T) {
	e := newEnv(t)
	_, err := e.run(t, "diagnose", "S999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 stores failed")
	assert.NoFileExists(t, filepath.Join(e.dataDir, "results", "S999.json"))
}

func TestDiagnoseCommand_RequiresCodesOrAll(t *testing.T) {
	e := newEnv(t)
	_, err := e.run(t, "diagnose")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one store code")

	_, err = e.run(t, "diagnose", "S001", "--all")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not both")
}

func TestDiagnoseCommand_RecordsHistory(t *testing.T) {
	e := newEnv(t)
	_, err := e.run(t, "diagnose", "S001")
	require.NoError(t, err)
	_, err = e.run(t, "diagnose", "S001")
	require.NoError(t, err)

	out, err := e.run(t, "history", "S001", "--json")
	require.NoError(t, err)
	var entries []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "diagnose", entries[0]["kind"])
	assert.Equal(t, "critical", entries[0]["overall_health"])
}

func TestDiagnoseCommand_UsesConfigFile(t *testing.T) {
	e := newEnv(t)
	_, err := e.run(t, "init")
	require.NoError(t, err)

	_, err = e.run(t, "diagnose", "S002")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(e.configDir, ".storediag.yaml"))
	assert.NoError(t, err)
}

func TestDiagnoseCommand_NonFiniteReportValue(t *testing.T) {
	e := newEnv(t)
	report := `{"store_code": "S900", "commercial": {"survival_rate": "NaN", "sales_growth_rate": -20, "closure_rate": 30}}`
	require.NoError(t, os.WriteFile(filepath.Join(e.dataDir, "reports", "S900.json"), []byte(report), 0o644))

	out, err := e.run(t, "diagnose", "S900", "--json")
	require.NoError(t, err)

	var outcomes []struct {
		Result struct {
			OverallHealth string `json:"overall_health"`
			Issues        []struct {
				IssueType string `json:"issue_type"`
			} `json:"issues"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &outcomes))
	require.Len(t, outcomes, 1)
	assert.Equal(t, "critical", outcomes[0].Result.OverallHealth)

	var types []string
	for _, is := range outcomes[0].Result.Issues {
		types = append(types, is.IssueType)
	}
	assert.Contains(t, types, "critical_cvi")
}
