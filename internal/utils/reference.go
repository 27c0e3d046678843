package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateExternalID generates a unique correlation id for a payment
func GenerateExternalID(prefix string) string {
	id := uuid.NewString()

	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return id
	}
	return prefix + "-" + id
}
