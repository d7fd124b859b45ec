// Package store persists contacts. MongoStore is the default document store, MySQLStore keeps the
// same contract on a relational database.
package store

import (
	"errors"
	"fmt"
)

// CollectionName is the name of the Mongo collection and of the MySQL table.
const CollectionName = "contacts"

// ErrNotFound is returned when no contact has the requested id.
var ErrNotFound = errors.New("contact not found")

// DuplicateKeyError is returned when a write would break the unique index on a field.
type DuplicateKeyError struct {
	Field string
	Value string
	Err   error
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate value %q for unique field %s: %v", e.Value, e.Field, e.Err)
}

func (e *DuplicateKeyError) Unwrap() error {
	return e.Err
}
