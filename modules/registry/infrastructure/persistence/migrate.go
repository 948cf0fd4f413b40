package persistence

import (
	"context"
	"io/fs"
	"path"
	"sort"

	gerrors "github.com/go-faster/errors"

	"github.com/iota-uz/civreg/pkg/composables"
)

// Migrate executes every .sql file in schemaFS, in lexical path order, inside one transaction.
// The statements are idempotent (CREATE ... IF NOT EXISTS).
func Migrate(ctx context.Context, schemaFS fs.FS) ([]string, error) {
	var paths []string
	if err := fs.WalkDir(schemaFS, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && path.Ext(p) == ".sql" {
			paths = append(paths, p)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, gerrors.New("no schema files found")
	}
	sort.Strings(paths)

	err := composables.InTx(ctx, func(txCtx context.Context) error {
		tx, err := composables.UseTx(txCtx)
		if err != nil {
			return err
		}
		for _, p := range paths {
			body, err := fs.ReadFile(schemaFS, p)
			if err != nil {
				return gerrors.Wrapf(err, "read %s", p)
			}
			if _, err := tx.Exec(txCtx, string(body)); err != nil {
				return gerrors.Wrapf(err, "apply %s", p)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}
