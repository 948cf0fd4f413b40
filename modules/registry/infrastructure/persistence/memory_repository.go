package persistence

import (
	"context"
	"sync"

	"github.com/iota-uz/civreg/modules/registry/domain/record"
)

// MemoryRepository keeps records per kind in process memory. Used by the dry-run CLI path
// when no database is configured, and by tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[record.Kind]map[string]map[string]*string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: map[record.Kind]map[string]map[string]*string{}}
}

func (r *MemoryRepository) LookupByKeys(ctx context.Context, schema record.Schema, keys []string) (map[string]record.Protected, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]record.Protected, len(keys))
	stored := r.records[schema.Kind]
	for _, k := range keys {
		values, ok := stored[k]
		if !ok {
			continue
		}
		p := make(record.Protected, len(schema.Protected))
		for _, f := range schema.Protected {
			p[f] = copyValue(values[f])
		}
		out[k] = p
	}
	return out, nil
}

func (r *MemoryRepository) Upsert(ctx context.Context, schema record.Schema, records []record.Record) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	byKey, ok := r.records[schema.Kind]
	if !ok {
		byKey = map[string]map[string]*string{}
		r.records[schema.Kind] = byKey
	}
	for _, rec := range records {
		byKey[rec.Key()] = rec.Values()
	}
	return int64(len(records)), nil
}

// Get returns a copy of the stored record for key.
func (r *MemoryRepository) Get(kind record.Kind, key string) (map[string]*string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	values, ok := r.records[kind][key]
	if !ok {
		return nil, false
	}
	out := make(map[string]*string, len(values))
	for k, v := range values {
		out[k] = copyValue(v)
	}
	return out, true
}

func (r *MemoryRepository) Count(kind record.Kind) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records[kind])
}

func copyValue(v *string) *string {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
