package model

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ParseID converts the id parameter of a request URL into an ObjectId. Anything that is not 24
// hexadecimal digits is rejected with a *CastError.
func ParseID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, &CastError{
			Name:    "CastError",
			Message: fmt.Sprintf("Cast to ObjectId failed for value %q at path \"_id\" for model \"contact\"", raw),
			Kind:    "ObjectId",
			Value:   raw,
			Path:    "_id",
		}
	}
	return id, nil
}
