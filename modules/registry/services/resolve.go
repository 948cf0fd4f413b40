package services

import (
	"strings"

	"github.com/iota-uz/civreg/modules/registry/domain/record"
)

// FirstAlias returns the value of the first alias that is present and non-empty in row.
func FirstAlias(row record.NormalizedRow, aliases []string) (any, bool) {
	for _, alias := range aliases {
		v, ok := row[alias]
		if !ok || isBlank(v) {
			continue
		}
		return v, true
	}
	return nil, false
}

// ResolveRecord maps a normalized row onto the schema's canonical fields through the alias
// table. Text fields that no alias supplies take the field default, or the empty string.
// Date fields hold an ISO date or NULL.
func ResolveRecord(schema record.Schema, row record.NormalizedRow, line int) record.Record {
	rec := record.New(schema, line)

	for _, f := range schema.Fields {
		if f.Type == record.FieldDate {
			continue
		}
		v := f.Default
		if raw, ok := FirstAlias(row, f.Aliases); ok {
			v = scalarString(raw)
		}
		if f.Name == schema.Key {
			v = normalizeKey(v)
		}
		rec.Set(f.Name, v)
	}

	for _, f := range schema.Fields {
		if f.Type != record.FieldDate {
			continue
		}
		raw, _ := FirstAlias(row, f.Aliases)
		var fallback string
		if f.DateSource != "" {
			fallback, _ = rec.Get(f.DateSource)
		}
		rec.SetValue(f.Name, NormalizeDate(raw, fallback))
	}
	return rec
}

// normalizeKey drops the apostrophe spreadsheets use to force numeric identifiers to text.
func normalizeKey(v string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(v), "'"))
}
