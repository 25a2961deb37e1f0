package utils

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var objectIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// IsObjectID kiểm tra identifier có phải id (24 ký tự hex) hay không.
// Nếu không phải thì caller coi nó là slug.
func IsObjectID(identifier string) bool {
	return objectIDPattern.MatchString(identifier)
}

// NewObjectID sinh id mới dạng 24 hex, dùng chung cho mọi storage driver
func NewObjectID() string {
	return primitive.NewObjectID().Hex()
}
