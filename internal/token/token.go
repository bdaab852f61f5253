package token

import (
	"crypto/rand"
	"fmt"
)

// Order tokens are 8 uppercase alphanumerics. 0/O and 1/I stay in the
// alphabet because lookups are exact-match, not typed over the phone.
const (
	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	length   = 8
)

// NewOrderToken generates a random 8-character tracking token
func NewOrderToken() (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate order token: %w", err)
	}
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(buf), nil
}
