package services

import (
	"context"

	gerrors "github.com/go-faster/errors"
	"golang.org/x/sync/errgroup"

	"github.com/iota-uz/civreg/modules/registry/domain/record"
)

// ChunkKeys splits keys into consecutive chunks of at most size keys.
func ChunkKeys(keys []string, size int) [][]string {
	if size <= 0 {
		size = len(keys)
	}
	var out [][]string
	for start := 0; start < len(keys); start += size {
		end := min(start+size, len(keys))
		out = append(out, keys[start:end])
	}
	return out
}

// BuildExistingIndex looks up the protected fields of every stored record among keys. Chunks
// are queried concurrently; the index is returned only when every chunk succeeded.
func BuildExistingIndex(
	ctx context.Context,
	repo record.Repository,
	schema record.Schema,
	keys []string,
	chunkSize int,
	concurrency int,
) (map[string]record.Protected, error) {
	chunks := ChunkKeys(keys, chunkSize)
	results := make([]map[string]record.Protected, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, chunk := range chunks {
		g.Go(func() error {
			found, err := repo.LookupByKeys(gctx, schema, chunk)
			if err != nil {
				return gerrors.Wrapf(err, "lookup chunk %d/%d", i+1, len(chunks))
			}
			results[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	index := make(map[string]record.Protected)
	for _, found := range results {
		for k, p := range found {
			index[k] = p
		}
	}
	return index, nil
}

// MergeProtected overwrites the protected fields of records whose key is in index with the
// stored values and returns how many records matched.
func MergeProtected(schema record.Schema, records []record.Record, index map[string]record.Protected) int {
	matched := 0
	for _, rec := range records {
		stored, ok := index[rec.Key()]
		if !ok {
			continue
		}
		matched++
		for _, f := range schema.Protected {
			rec.SetValue(f, stored[f])
		}
	}
	return matched
}
