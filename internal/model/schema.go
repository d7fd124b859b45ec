package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Schema is the set of validation rules for contacts. It is built once with NewContactSchema and
// never changes afterwards, so a single instance can be shared by all requests.
type Schema struct {
	modelName string
	validate  *validator.Validate
}

// NewContactSchema returns the rules declared on the Contact struct tags: required names, email,
// phone and address parts, and gender restricted to male or female.
func NewContactSchema() *Schema {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Schema{modelName: "contact", validate: v}
}

// Validate checks the contact against the schema. It returns nil or a *ValidationError with one
// entry per failing field. Cast failures of the request body are reported together with the rule
// violations and take precedence for their path.
func (s *Schema) Validate(c *Contact, castFailures map[string]*FieldError) error {
	fields := make(map[string]*FieldError, len(castFailures))
	err := s.validate.Struct(c)
	if err != nil {
		var failures validator.ValidationErrors
		if !errors.As(err, &failures) {
			return err
		}
		for _, fe := range failures {
			path := fieldPath(fe.Namespace())
			fields[path] = s.fieldError(path, fe)
		}
	}
	for path, fe := range castFailures {
		fields[path] = fe
	}
	if len(fields) == 0 {
		return nil
	}
	return newValidationError(s.modelName, fields)
}

// UniqueViolation reports that value is already taken by another contact.
func (s *Schema) UniqueViolation(path string, value string) *ValidationError {
	return newValidationError(s.modelName, map[string]*FieldError{
		path: {
			Name:    "ValidatorError",
			Kind:    KindUnique,
			Message: fmt.Sprintf("Error, expected `%s` to be unique. Value: `%s`", path, value),
			Path:    path,
			Value:   value,
		},
	})
}

func (s *Schema) fieldError(path string, fe validator.FieldError) *FieldError {
	switch fe.Tag() {
	case "required":
		return &FieldError{
			Name:    "ValidatorError",
			Kind:    KindRequired,
			Message: fmt.Sprintf("Path `%s` is required.", path),
			Path:    path,
		}
	case "oneof":
		return &FieldError{
			Name:    "ValidatorError",
			Kind:    KindEnum,
			Message: fmt.Sprintf("`%v` is not a valid enum value for path `%s`.", fe.Value(), path),
			Path:    path,
			Value:   fe.Value(),
		}
	default:
		return &FieldError{
			Name:    "ValidatorError",
			Kind:    fe.Tag(),
			Message: fmt.Sprintf("Validator %q failed for path `%s`", fe.Tag(), path),
			Path:    path,
			Value:   fe.Value(),
		}
	}
}

// fieldPath strips the struct name from a validator namespace: "Contact.address.city" becomes
// "address.city".
func fieldPath(namespace string) string {
	_, path, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}
	return path
}
