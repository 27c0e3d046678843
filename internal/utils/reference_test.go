package utils

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateExternalID(t *testing.T) {
	id := GenerateExternalID("order")

	require.True(t, strings.HasPrefix(id, "order-"))
	parsed, err := uuid.Parse(strings.TrimPrefix(id, "order-"))
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), parsed.Version())
}

func TestGenerateExternalID_NoPrefix(t *testing.T) {
	id := GenerateExternalID("  ")

	_, err := uuid.Parse(id)
	assert.NoError(t, err)
}

func TestGenerateExternalID_Unique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := GenerateExternalID("ext")
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}
