package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Text is a client supplied text field. JSON strings are taken as they are, numbers and booleans
// are stored as their literal text ("zipCode": 8585 becomes "8585"). Objects and arrays are kept
// raw and reported by ContactPatch.CastFailures.
type Text struct {
	Value string
	raw   json.RawMessage
}

// NewText returns a Text holding s.
func NewText(s string) *Text {
	return &Text{Value: s}
}

// UnmarshalJSON implements json.Unmarshaler. JSON null never reaches it for *Text fields, so a
// null leaves the field unset.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty text value")
	}
	switch data[0] {
	case '"':
		return json.Unmarshal(data, &t.Value)
	case '{', '[':
		t.raw = append(json.RawMessage(nil), data...)
		return nil
	default:
		// numbers and booleans
		t.Value = string(data)
		return nil
	}
}

// Valid reports whether the value could be read as text.
func (t *Text) Valid() bool {
	return t.raw == nil
}

// castFailure returns the field error for a value that is not text, or nil.
func (t *Text) castFailure(path string) *FieldError {
	if t == nil || t.Valid() {
		return nil
	}
	var value any
	_ = json.Unmarshal(t.raw, &value)
	return &FieldError{
		Name:    "CastError",
		Kind:    KindString,
		Message: fmt.Sprintf("Cast to string failed for value %q at path %q", string(t.raw), path),
		Path:    path,
		Value:   value,
	}
}
