package design

import (
	"errors"
	"fmt"
	"strings"
)

// Design errors
var (
	ErrInvalidConfig     = errors.New("invalid design system config")
	ErrNotFound          = errors.New("vocabulary record not found")
	ErrInvalidVocabulary = errors.New("invalid vocabulary")
)

// Field error codes
const (
	CodeRequired     = "required"
	CodeUnknownValue = "unknown_value"
	CodeIncompatible = "incompatible"
)

// FieldError is one invalid field of a Config. Field uses the JSON name.
type FieldError struct {
	Field   string `json:"field"`
	Value   string `json:"value"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (f FieldError) String() string {
	return fmt.Sprintf("%s: %s", f.Field, f.Message)
}

// ConfigValidationError collects every invalid field of a Config.
type ConfigValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ConfigValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.String())
	}
	return fmt.Sprintf("%s: %s", ErrInvalidConfig, strings.Join(parts, "; "))
}

func (e *ConfigValidationError) Unwrap() error {
	return ErrInvalidConfig
}

// Has reports whether field failed validation.
func (e *ConfigValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// NotFoundError is returned by the builders when a selected record is
// missing from the vocabulary.
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}
