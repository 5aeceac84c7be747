package ingest

import (
	"fjacquet/ledger-import/internal/parsererror"
)

// ErrorEntry reports a transaction that could not be stored.
type ErrorEntry struct {
	Description string `json:"description"`
	Error       string `json:"error"`
}

// Result summarizes an ingestion. TotalProcessed counts every parsed transaction,
// so Imported + Skipped + len(Errors) == TotalProcessed.
type Result struct {
	Success        bool         `json:"success"`
	Imported       int          `json:"imported"`
	Skipped        int          `json:"skipped"`
	Errors         []ErrorEntry `json:"errors"`
	TotalProcessed int          `json:"total_processed"`
	// RowErrors are rows the parser could not read; they never reach the store.
	RowErrors []*parsererror.RowError `json:"-"`
}

func newResult() *Result {
	return &Result{Success: true, Errors: []ErrorEntry{}}
}

func (r *Result) fail(description string, err error) {
	r.Errors = append(r.Errors, ErrorEntry{Description: description, Error: err.Error()})
}
