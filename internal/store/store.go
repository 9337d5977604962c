// Package store implements persistence over MongoDB collections for
// accounts, catalog entries and user-game associations.
package store

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned when no record matches the given identifier.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert or update violates a
// uniqueness constraint.
var ErrDuplicate = errors.New("duplicate record")

// parseID converts a hex identifier into an ObjectID. Malformed ids are
// treated as referring to no record.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return oid, nil
}
