package model

import (
	"fmt"
	"sort"
	"strings"
)

// Kinds of field validation failures.
const (
	KindRequired = "required"
	KindEnum     = "enum"
	KindUnique   = "unique"
	KindString   = "string"
)

// FieldError describes why a single field of a contact was rejected.
type FieldError struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Path    string `json:"path"`
	Value   any    `json:"value,omitempty"`
}

// ValidationError is returned when a contact breaks one or more schema rules. Errors is keyed by
// the dotted field path, e.g. "address.zipCode".
type ValidationError struct {
	Name    string                 `json:"name"`
	Message string                 `json:"message"`
	Errors  map[string]*FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// newValidationError builds the error for the model and computes its summary message from the
// field errors, sorted by path.
func newValidationError(modelName string, fields map[string]*FieldError) *ValidationError {
	paths := make([]string, 0, len(fields))
	for path := range fields {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	parts := make([]string, 0, len(paths))
	for _, path := range paths {
		parts = append(parts, path+": "+fields[path].Message)
	}
	return &ValidationError{
		Name:    "ValidationError",
		Message: fmt.Sprintf("%s validation failed: %s", modelName, strings.Join(parts, ", ")),
		Errors:  fields,
	}
}

// CastError is returned when an id parameter is not a well-formed ObjectId.
type CastError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Kind    string `json:"kind"`
	Value   string `json:"value"`
	Path    string `json:"path"`
}

func (e *CastError) Error() string {
	return e.Message
}
