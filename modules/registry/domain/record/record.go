package record

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RawRow is one spreadsheet line keyed by its header text, as produced by the file converter.
type RawRow map[string]any

// SourceLineKey is reserved in a RawRow for the row's 1-based line in the source file.
// Readers that skip blank lines set it so reports point at the real line.
const SourceLineKey = "\x00line"

// SourceLine returns the line recorded under SourceLineKey, if any.
func (r RawRow) SourceLine() (int, bool) {
	line, ok := r[SourceLineKey].(int)
	return line, ok && line > 0
}

// NormalizedRow is a RawRow whose keys went through NormalizeHeader.
type NormalizedRow map[string]any

// Protected holds the stored values of a schema's protected fields for one natural key.
// A nil value means the column is NULL in the store.
type Protected map[string]*string

// Headers returns the distinct keys of the row in sorted order.
func (r NormalizedRow) Headers() []string {
	out := make([]string, 0, len(r))
	for k := range r {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// NormalizeHeader trims, collapses inner whitespace and upper-cases a header cell.
func NormalizeHeader(h string) string {
	h = strings.Join(strings.Fields(h), " ")
	if h == "" {
		return ""
	}
	return cases.Upper(language.Und).String(h)
}

// Record is a canonical, entity-typed row. Every value is either a string or NULL.
type Record struct {
	kind     Kind
	keyField string
	line     int
	values   map[string]*string
}

func New(schema Schema, line int) Record {
	return Record{
		kind:     schema.Kind,
		keyField: schema.Key,
		line:     line,
		values:   make(map[string]*string, len(schema.Fields)),
	}
}

func (r Record) Kind() Kind { return r.kind }
func (r Record) Line() int  { return r.line }
func (r Record) Key() string {
	v, _ := r.Get(r.keyField)
	return v
}

// Get returns the field value; ok is false when the field is NULL or was never set.
func (r Record) Get(field string) (string, bool) {
	v, found := r.values[field]
	if !found || v == nil {
		return "", false
	}
	return *v, true
}

// Value returns the raw nullable value of a field.
func (r Record) Value(field string) *string {
	v := r.values[field]
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func (r Record) Set(field, value string) {
	r.values[field] = &value
}

func (r Record) SetNull(field string) {
	r.values[field] = nil
}

// SetValue stores a nullable value, copying it.
func (r Record) SetValue(field string, value *string) {
	if value == nil {
		r.SetNull(field)
		return
	}
	r.Set(field, *value)
}

// Values returns a copy of the field map.
func (r Record) Values() map[string]*string {
	out := make(map[string]*string, len(r.values))
	for k := range r.values {
		out[k] = r.Value(k)
	}
	return out
}

// ProtectedSubset extracts the schema's protected fields from the record.
func (r Record) ProtectedSubset(schema Schema) Protected {
	out := make(Protected, len(schema.Protected))
	for _, f := range schema.Protected {
		out[f] = r.Value(f)
	}
	return out
}
