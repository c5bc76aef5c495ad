package dto

// ImportCandidate is one pre-canonical row of a bulk import batch. All
// fields arrive as strings so a single bad row reports a row-level error
// instead of failing the whole payload at unmarshal time.
type ImportCandidate struct {
	Date        string  `json:"date"`
	Kind        string  `json:"kind"`
	ReferenceNo *string `json:"referenceNo"`
	Amount      string  `json:"amount"`
	Category    string  `json:"category"`
	Notes       *string `json:"notes"`
	Segment     string  `json:"segment"`
}

// BulkImportRequest is the JSON batch-import payload.
type BulkImportRequest struct {
	Records []ImportCandidate `json:"records" binding:"required"`
}

// BulkImportError describes one rejected candidate by its original index.
type BulkImportError struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

// BulkImportResult reports the outcome of a bulk import: counts plus
// per-row detail sufficient for an "N imported, M failed" summary.
type BulkImportResult struct {
	Imported int               `json:"imported"`
	Failed   int               `json:"failed"`
	Skipped  int               `json:"skipped"`
	Results  []RecordResponse  `json:"results"`
	Errors   []BulkImportError `json:"errors"`
}
