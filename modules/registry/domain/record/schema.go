package record

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-faster/errors"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

var ErrUnknownKind = errors.New("unknown record kind")

type Kind string

const (
	KindKTP            Kind = "ktp"
	KindKK             Kind = "kk"
	KindAktaKelahiran  Kind = "akta_kelahiran"
	KindAktaPerkawinan Kind = "akta_perkawinan"
	KindAktaPerceraian Kind = "akta_perceraian"
	KindAktaKematian   Kind = "akta_kematian"
)

type FieldType string

const (
	FieldText FieldType = "text"
	FieldDate FieldType = "date"
)

// KeyFormat describes how strictly a natural key is checked.
type KeyFormat string

const (
	// KeyFreeForm accepts certificate numbers as-is (letters, digits, hyphens, slashes, dots).
	KeyFreeForm KeyFormat = "free"
	// KeyDigits16 requires exactly 16 digits (NIK, no_kk).
	KeyDigits16 KeyFormat = "digits16"
)

type Field struct {
	Name    string    `json:"name" yaml:"name"`
	Type    FieldType `json:"type" yaml:"type"`
	Aliases []string  `json:"aliases" yaml:"aliases"`
	// Default applies when no alias supplies a value.
	Default string `json:"default,omitempty" yaml:"default,omitempty"`
	// DateSource names a field scanned for an embedded DDMMYYYY run when the date itself is unusable.
	DateSource string `json:"date_source,omitempty" yaml:"date_source,omitempty"`
}

type Schema struct {
	Kind      Kind      `json:"kind" yaml:"kind"`
	Label     string    `json:"label" yaml:"label"`
	Table     string    `json:"table" yaml:"table"`
	Key       string    `json:"key" yaml:"key"`
	KeyFormat KeyFormat `json:"key_format" yaml:"key_format"`
	Identity  []string  `json:"identity" yaml:"identity"`
	Protected []string  `json:"protected" yaml:"protected"`
	Fields    []Field   `json:"fields" yaml:"fields"`
}

func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Columns returns the field names in declaration order.
func (s Schema) Columns() []string {
	out := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		out = append(out, f.Name)
	}
	return out
}

func (s Schema) IsProtected(field string) bool {
	for _, p := range s.Protected {
		if p == field {
			return true
		}
	}
	return false
}

// Check reports structural mistakes in a schema definition.
func (s Schema) Check() error {
	if s.Kind == "" || s.Table == "" {
		return errors.New("schema: kind and table are required")
	}
	names := make(map[string]struct{}, len(s.Fields))
	for _, f := range s.Fields {
		if _, dup := names[f.Name]; dup {
			return fmt.Errorf("schema %s: duplicate field %q", s.Kind, f.Name)
		}
		if len(f.Aliases) == 0 && f.Default == "" && !s.IsProtected(f.Name) {
			return fmt.Errorf("schema %s: field %q has no aliases", s.Kind, f.Name)
		}
		names[f.Name] = struct{}{}
	}
	for _, f := range s.Fields {
		if f.DateSource == "" {
			continue
		}
		if _, ok := names[f.DateSource]; !ok {
			return fmt.Errorf("schema %s: field %q has unknown date source %q", s.Kind, f.Name, f.DateSource)
		}
	}
	required := append([]string{s.Key}, s.Identity...)
	required = append(required, s.Protected...)
	for _, name := range required {
		if _, ok := names[name]; !ok {
			return fmt.Errorf("schema %s: field %q is not declared", s.Kind, name)
		}
	}
	if s.IsProtected(s.Key) {
		return fmt.Errorf("schema %s: natural key cannot be protected", s.Kind)
	}
	return nil
}

var schemas = func() map[Kind]Schema {
	out := make(map[Kind]Schema, len(definitions))
	for _, s := range definitions {
		for i := range s.Fields {
			for j, a := range s.Fields[i].Aliases {
				s.Fields[i].Aliases[j] = NormalizeHeader(a)
			}
		}
		out[s.Kind] = s
	}
	return out
}()

func Lookup(kind Kind) (Schema, error) {
	s, ok := schemas[kind]
	if !ok {
		return Schema{}, errors.Wrapf(ErrUnknownKind, "%q", kind)
	}
	return s, nil
}

// ParseKind accepts the kind name case-insensitively, with hyphens or underscores.
func ParseKind(v string) (Kind, error) {
	k := Kind(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(v)), "-", "_"))
	if _, ok := schemas[k]; !ok {
		if hint, found := SuggestKind(v); found {
			return "", errors.Wrapf(ErrUnknownKind, "%q (did you mean %q?)", v, hint)
		}
		return "", errors.Wrapf(ErrUnknownKind, "%q", v)
	}
	return k, nil
}

// SuggestKind returns the closest known kind for a mistyped name: the best fuzzy match
// when the input is a subsequence of a kind, otherwise a kind within two edits.
func SuggestKind(v string) (Kind, bool) {
	v = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(v)), "-", "_")
	if v == "" {
		return "", false
	}
	kinds := Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	if ranks := fuzzy.RankFindNormalizedFold(v, names); len(ranks) > 0 {
		sort.Sort(ranks)
		return Kind(ranks[0].Target), true
	}
	best, bestDist := "", 3
	for _, n := range names {
		if d := fuzzy.LevenshteinDistance(v, n); d < bestDist {
			best, bestDist = n, d
		}
	}
	return Kind(best), best != ""
}

func Kinds() []Kind {
	out := make([]Kind, 0, len(schemas))
	for k := range schemas {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func Schemas() []Schema {
	kinds := Kinds()
	out := make([]Schema, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, schemas[k])
	}
	return out
}
