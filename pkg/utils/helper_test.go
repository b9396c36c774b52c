package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInt(t *testing.T) {
	assert.Equal(t, 5, ParseInt("5", 1))
	assert.Equal(t, 1, ParseInt("", 1))
	assert.Equal(t, 1, ParseInt("abc", 1))
	assert.Equal(t, 10, ParseInt("0", 10))
	assert.Equal(t, 10, ParseInt("-3", 10))
}

func TestGenerateOrderID(t *testing.T) {
	id := GenerateOrderID()
	assert.True(t, strings.HasPrefix(id, "PAY"))
	// PAY + 13-digit epoch millis + 8 hex chars
	assert.Len(t, id, 3+13+8)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		other := GenerateOrderID()
		assert.False(t, seen[other], "duplicate order id %s", other)
		seen[other] = true
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.True(t, CheckPassword(hash, "secret123"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
