package services

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/iota-uz/civreg/modules/registry/domain/record"
)

type Reason string

const (
	ReasonEmptyKey      Reason = "empty_key"
	ReasonMalformedKey  Reason = "malformed_key"
	ReasonEmptyIdentity Reason = "empty_identity"
)

type ValidationError struct {
	Reason Reason
	Field  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Field)
}

var validate = validator.New()

var keyFormatTags = map[record.KeyFormat]string{
	record.KeyDigits16: "len=16,number",
}

// Validate accepts a record iff its natural key is present and well-formed and every
// identity field is non-empty.
func Validate(schema record.Schema, rec record.Record) error {
	key := rec.Key()
	if key == "" {
		return &ValidationError{Reason: ReasonEmptyKey, Field: schema.Key}
	}
	if tag, ok := keyFormatTags[schema.KeyFormat]; ok {
		if err := validate.Var(key, tag); err != nil {
			return &ValidationError{Reason: ReasonMalformedKey, Field: schema.Key}
		}
	}
	for _, f := range schema.Identity {
		v, _ := rec.Get(f)
		if strings.TrimSpace(v) == "" {
			return &ValidationError{Reason: ReasonEmptyIdentity, Field: f}
		}
	}
	return nil
}
