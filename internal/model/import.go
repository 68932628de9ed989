package model

// SkippedRow is a statement row the importer could not map onto the ledger.
type SkippedRow struct {
	Kind     string `json:"kind"`
	SourceID string `json:"source_id"`
	Reason   string `json:"reason"`
}

// ImportResult reports what a broker statement import added. Rows already
// present from an earlier import are counted as duplicates.
type ImportResult struct {
	TradesImported    int          `json:"trades_imported"`
	CashFlowsImported int          `json:"cash_flows_imported"`
	FxRatesImported   int          `json:"fx_rates_imported"`
	Duplicates        int          `json:"duplicates"`
	Skipped           []SkippedRow `json:"skipped"`
}
