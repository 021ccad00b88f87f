package common

import (
	"github.com/google/uuid"
)

// GenerateUUID returns a fresh identifier string.
func GenerateUUID() string {
	return uuid.New().String()
}
