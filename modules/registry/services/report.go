package services

import (
	"sort"

	"github.com/google/uuid"

	"github.com/iota-uz/civreg/modules/registry/domain/record"
)

type State string

const (
	StateParsing       State = "parsing"
	StateValidating    State = "validating"
	StateDeduplicating State = "deduplicating"
	StateMerging       State = "merging"
	StatePersisting    State = "persisting"
	StateReported      State = "reported"
	StateFailed        State = "failed"
)

const maxReportedIssues = 100

// RowIssue explains why a spreadsheet line was left out of the batch.
type RowIssue struct {
	Line   int    `json:"line"`
	Reason Reason `json:"reason"`
	Field  string `json:"field"`
}

type Result struct {
	RunID  uuid.UUID   `json:"run_id"`
	Kind   record.Kind `json:"kind"`
	State  State       `json:"state"`
	DryRun bool        `json:"dry_run"`

	TotalRows              int   `json:"total_rows"`
	ValidCount             int   `json:"valid_count"`
	InvalidCount           int   `json:"invalid_count"`
	DuplicateCount         int   `json:"duplicate_count"`
	SkippedCount           int   `json:"skipped_count"`
	ExistingCount          int   `json:"existing_count"`
	InsertedOrUpdatedCount int64 `json:"inserted_or_updated_count"`

	// SampleHeaders is only filled when no row survived validation.
	SampleHeaders []string   `json:"sample_headers,omitempty"`
	Invalid       []RowIssue `json:"invalid,omitempty"`
	DuplicateKeys []string   `json:"duplicate_keys,omitempty"`
	Message       string     `json:"message,omitempty"`
}

// report accumulates outcomes while an import moves through its states.
type report struct {
	res     Result
	headers map[string]struct{}
}

func newReport(runID uuid.UUID, kind record.Kind, dryRun bool) *report {
	return &report{
		res:     Result{RunID: runID, Kind: kind, State: StateParsing, DryRun: dryRun},
		headers: map[string]struct{}{},
	}
}

func (r *report) transition(s State) {
	r.res.State = s
}

func (r *report) observeHeaders(row record.NormalizedRow) {
	for k := range row {
		r.headers[k] = struct{}{}
	}
}

func (r *report) reject(line int, err *ValidationError) {
	r.res.InvalidCount++
	if len(r.res.Invalid) < maxReportedIssues {
		r.res.Invalid = append(r.res.Invalid, RowIssue{Line: line, Reason: err.Reason, Field: err.Field})
	}
}

func (r *report) duplicates(valid, unique int, keys []string) {
	r.res.DuplicateCount = valid - unique
	if len(keys) > maxReportedIssues {
		keys = keys[:maxReportedIssues]
	}
	r.res.DuplicateKeys = keys
}

// emptyResult closes an import that has nothing to persist, listing the headers seen so an
// operator can spot a naming mismatch.
func (r *report) emptyResult(limit int) Result {
	headers := make([]string, 0, len(r.headers))
	for h := range r.headers {
		headers = append(headers, h)
	}
	sort.Strings(headers)
	if limit > 0 && len(headers) > limit {
		headers = headers[:limit]
	}
	r.res.SampleHeaders = headers
	r.res.Message = "no valid rows found; check that the sheet headers match the expected column names"
	return r.finish()
}

func (r *report) finish() Result {
	r.res.SkippedCount = r.res.InvalidCount + r.res.DuplicateCount
	r.transition(StateReported)
	return r.res
}
