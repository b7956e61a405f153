// Package objectid generates and validates the 24-character hexadecimal
// identifiers used as primary keys for every entity.
package objectid

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// New returns a fresh 24-hex identifier
func New() string {
	return primitive.NewObjectID().Hex()
}

// IsValid reports whether s is a well-formed 24-hex identifier
func IsValid(s string) bool {
	return primitive.IsValidObjectID(s)
}
