package token

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderToken(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Z0-9]{8}$`)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tok, err := NewOrderToken()
		require.NoError(t, err)
		assert.Regexp(t, pattern, tok)
		seen[tok] = true
	}
	// 100 draws from a 36^8 space colliding would indicate broken randomness
	assert.Greater(t, len(seen), 95)
}
