package persistence

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/iota-uz/civreg/modules/registry/domain/record"
)

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

// lookupSQL selects the natural key followed by every protected column.
func lookupSQL(schema record.Schema) string {
	cols := make([]string, 0, len(schema.Protected)+1)
	cols = append(cols, ident(schema.Key))
	for _, f := range schema.Protected {
		cols = append(cols, ident(f))
	}
	return fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = ANY($1)",
		strings.Join(cols, ", "), ident(schema.Table), ident(schema.Key),
	)
}

// upsertSQL inserts one record and replaces every non-key column on conflict.
func upsertSQL(schema record.Schema) string {
	cols := make([]string, 0, len(schema.Fields))
	placeholders := make([]string, 0, len(schema.Fields))
	updates := make([]string, 0, len(schema.Fields))
	for i, f := range schema.Fields {
		col := ident(f.Name)
		cols = append(cols, col)
		p := fmt.Sprintf("$%d", i+1)
		if f.Type == record.FieldDate {
			p += "::text::date"
		}
		placeholders = append(placeholders, p)
		if f.Name != schema.Key {
			updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
		}
	}
	updates = append(updates, "updated_at = now()")
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s",
		ident(schema.Table),
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", "),
		ident(schema.Key),
		strings.Join(updates, ", "),
	)
}

func upsertArgs(schema record.Schema, rec record.Record) []any {
	args := make([]any, 0, len(schema.Fields))
	for _, f := range schema.Fields {
		args = append(args, rec.Value(f.Name))
	}
	return args
}
