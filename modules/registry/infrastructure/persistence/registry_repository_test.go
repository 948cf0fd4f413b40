package persistence

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/civreg/modules/registry/domain/record"
	"github.com/iota-uz/civreg/pkg/composables"
)

type fakeRows struct {
	data [][]*string
	pos  int
	err  error
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return nil, nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.pos-1]
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = *row[i]
		case **string:
			*p = row[i]
		default:
			return errors.New("unsupported scan target")
		}
	}
	return nil
}

type fakeBatchResults struct {
	tags []pgconn.CommandTag
	errs []error
	pos  int
}

func (b *fakeBatchResults) Exec() (pgconn.CommandTag, error) {
	i := b.pos
	b.pos++
	if i < len(b.errs) && b.errs[i] != nil {
		return pgconn.CommandTag{}, b.errs[i]
	}
	return b.tags[i], nil
}
func (b *fakeBatchResults) Query() (pgx.Rows, error) { return nil, errors.New("not implemented") }
func (b *fakeBatchResults) QueryRow() pgx.Row        { return nil }
func (b *fakeBatchResults) Close() error             { return nil }

type fakeTx struct {
	querySQL  string
	queryArgs []any
	rows      *fakeRows
	queryErr  error

	batch   *pgx.Batch
	results *fakeBatchResults
}

func (f *fakeTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag("CREATE TABLE"), nil
}

func (f *fakeTx) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.querySQL = sql
	f.queryArgs = args
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.rows, nil
}

func (f *fakeTx) QueryRow(context.Context, string, ...any) pgx.Row { return nil }

func (f *fakeTx) SendBatch(_ context.Context, b *pgx.Batch) pgx.BatchResults {
	f.batch = b
	return f.results
}

func ptr(s string) *string { return &s }

func mustSchema(t *testing.T, kind record.Kind) record.Schema {
	t.Helper()
	s, err := record.Lookup(kind)
	require.NoError(t, err)
	return s
}

func TestLookupSQL(t *testing.T) {
	s := mustSchema(t, record.KindAktaKelahiran)
	require.Equal(t,
		`SELECT "no_akta", "tipe_akta", "scan_path" FROM "akta_kelahiran" WHERE "no_akta" = ANY($1)`,
		lookupSQL(s),
	)
}

func TestUpsertSQL(t *testing.T) {
	s := mustSchema(t, record.KindKK)
	q := upsertSQL(s)
	require.True(t, strings.HasPrefix(q, `INSERT INTO "kartu_keluarga" ("no_kk", "kepala_keluarga",`))
	require.Contains(t, q, `$8::text::date`)
	require.Contains(t, q, `ON CONFLICT ("no_kk") DO UPDATE SET "kepala_keluarga" = EXCLUDED."kepala_keluarga"`)
	require.NotContains(t, q, `"no_kk" = EXCLUDED."no_kk"`)
	require.True(t, strings.HasSuffix(q, "updated_at = now()"))
}

func TestRegistryRepository_LookupByKeys(t *testing.T) {
	s := mustSchema(t, record.KindAktaKelahiran)
	tx := &fakeTx{rows: &fakeRows{data: [][]*string{
		{ptr("A-1"), ptr("LT"), nil},
	}}}
	ctx := composables.WithTx(context.Background(), tx)

	got, err := NewRegistryRepository().LookupByKeys(ctx, s, []string{"A-1", "A-2"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "LT", *got["A-1"]["tipe_akta"])
	require.Nil(t, got["A-1"]["scan_path"])
	require.Equal(t, []any{[]string{"A-1", "A-2"}}, tx.queryArgs)
}

func TestRegistryRepository_LookupByKeysErrors(t *testing.T) {
	s := mustSchema(t, record.KindKTP)
	repo := NewRegistryRepository()

	_, err := repo.LookupByKeys(context.Background(), s, []string{"1"})
	require.ErrorIs(t, err, composables.ErrNoPool)

	boom := errors.New("connection reset")
	ctx := composables.WithTx(context.Background(), &fakeTx{queryErr: boom})
	_, err = repo.LookupByKeys(ctx, s, []string{"1"})
	require.ErrorIs(t, err, boom)

	ctx = composables.WithTx(context.Background(), &fakeTx{rows: &fakeRows{err: boom}})
	_, err = repo.LookupByKeys(ctx, s, []string{"1"})
	require.ErrorIs(t, err, boom)

	got, err := repo.LookupByKeys(context.Background(), s, nil)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestRegistryRepository_Upsert(t *testing.T) {
	s := mustSchema(t, record.KindAktaKelahiran)
	a := record.New(s, 2)
	a.Set("no_akta", "A-1")
	a.Set("nama", "Budi")
	a.Set("tanggal_terbit", "2023-01-12")
	b := record.New(s, 3)
	b.Set("no_akta", "A-2")
	b.Set("nama", "Sari")

	tx := &fakeTx{results: &fakeBatchResults{tags: []pgconn.CommandTag{
		pgconn.NewCommandTag("INSERT 0 1"),
		pgconn.NewCommandTag("INSERT 0 1"),
	}}}
	ctx := composables.WithTx(context.Background(), tx)

	n, err := NewRegistryRepository().Upsert(ctx, s, []record.Record{a, b})
	require.NoError(t, err)
	require.EqualValues(t, 2, n)
	require.Equal(t, 2, tx.batch.Len())

	args := tx.batch.QueuedQueries[0].Arguments
	require.Len(t, args, len(s.Fields))
	require.Equal(t, "A-1", *args[0].(*string))
}

func TestRegistryRepository_UpsertFailure(t *testing.T) {
	s := mustSchema(t, record.KindKTP)
	rec := record.New(s, 2)
	rec.Set("nik", "3201010101010001")
	rec.Set("nama", "Budi")

	boom := errors.New("unique violation")
	tx := &fakeTx{results: &fakeBatchResults{errs: []error{boom}}}
	ctx := composables.WithTx(context.Background(), tx)

	n, err := NewRegistryRepository().Upsert(ctx, s, []record.Record{rec})
	require.ErrorIs(t, err, boom)
	require.Zero(t, n)
}
