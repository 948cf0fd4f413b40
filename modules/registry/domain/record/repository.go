package record

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

var ErrReportNotFound = errors.New("import report not found")

// Repository is the record store as seen by the import engine.
type Repository interface {
	// LookupByKeys returns the protected-field subset of every stored record whose natural key
	// is in keys. Callers bound len(keys); implementations may reject oversized batches.
	LookupByKeys(ctx context.Context, schema Schema, keys []string) (map[string]Protected, error)
	// Upsert inserts or replaces records keyed on the schema's natural key as one unit and
	// returns the affected row count.
	Upsert(ctx context.Context, schema Schema, records []Record) (int64, error)
}

// ReportRepository holds encoded import reports by run ID. Load returns ErrReportNotFound
// for unknown or expired runs.
type ReportRepository interface {
	Save(ctx context.Context, runID uuid.UUID, payload []byte) error
	Load(ctx context.Context, runID uuid.UUID) ([]byte, error)
}
