package domain

// RunEntry is one line of a store's run ledger.
type RunEntry struct {
	RunID          string `json:"run_id"`
	StoreCode      string `json:"store_code"`
	Kind           string `json:"kind"`
	OverallHealth  Health `json:"overall_health"`
	Issues         int    `json:"issues"`
	Errors         int    `json:"errors"`
	ConfigRevision string `json:"config_revision,omitempty"`
	Timestamp      string `json:"timestamp"`
}

// Run kinds recorded in the ledger.
const (
	RunKindDiagnose = "diagnose"
	RunKindWorkflow = "workflow"
)
