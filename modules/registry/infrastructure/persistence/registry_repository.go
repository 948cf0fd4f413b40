package persistence

import (
	"context"

	gerrors "github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/iota-uz/civreg/modules/registry/domain/record"
	"github.com/iota-uz/civreg/pkg/composables"
)

// maxLookupKeys keeps a single ANY($1) array well inside protocol limits.
const maxLookupKeys = 30000

type RegistryRepository struct{}

func NewRegistryRepository() record.Repository {
	return &RegistryRepository{}
}

// queryConn prefers the pool because lookups run concurrently and a single transaction
// connection cannot serve overlapping queries.
func queryConn(ctx context.Context) (composables.Tx, error) {
	if pool, err := composables.UsePool(ctx); err == nil {
		return pool, nil
	}
	return composables.UseTx(ctx)
}

func (r *RegistryRepository) LookupByKeys(ctx context.Context, schema record.Schema, keys []string) (map[string]record.Protected, error) {
	out := make(map[string]record.Protected, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	if len(keys) > maxLookupKeys {
		return nil, gerrors.Errorf("lookup batch of %d keys exceeds %d", len(keys), maxLookupKeys)
	}

	conn, err := queryConn(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := conn.Query(ctx, lookupSQL(schema), keys)
	if err != nil {
		return nil, gerrors.Wrapf(err, "query %s", schema.Table)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		values := make([]*string, len(schema.Protected))
		dest := make([]any, 0, len(values)+1)
		dest = append(dest, &key)
		for i := range values {
			dest = append(dest, &values[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, gerrors.Wrapf(err, "scan %s", schema.Table)
		}
		p := make(record.Protected, len(schema.Protected))
		for i, f := range schema.Protected {
			p[f] = values[i]
		}
		out[key] = p
	}
	if err := rows.Err(); err != nil {
		return nil, gerrors.Wrapf(err, "iterate %s", schema.Table)
	}
	return out, nil
}

// Upsert sends one INSERT ... ON CONFLICT statement per record in a single batch inside one
// transaction; the whole batch commits or none of it does.
func (r *RegistryRepository) Upsert(ctx context.Context, schema record.Schema, records []record.Record) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}
	return composables.InTxResult(ctx, func(txCtx context.Context) (int64, error) {
		tx, err := composables.UseTx(txCtx)
		if err != nil {
			return 0, err
		}

		q := upsertSQL(schema)
		batch := &pgx.Batch{}
		for _, rec := range records {
			batch.Queue(q, upsertArgs(schema, rec)...)
		}

		br := tx.SendBatch(txCtx, batch)
		var affected int64
		for i := range records {
			tag, err := br.Exec()
			if err != nil {
				_ = br.Close()
				return 0, gerrors.Wrapf(err, "upsert %s row %d (key %q)", schema.Table, records[i].Line(), records[i].Key())
			}
			affected += tag.RowsAffected()
		}
		if err := br.Close(); err != nil {
			return 0, gerrors.Wrap(err, "close batch")
		}
		return affected, nil
	})
}
