// Package random produces cryptographically secure random identifiers.
package random

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

const (
	// DefaultIDLength is used for generic identifiers.
	DefaultIDLength = 32
	// DefaultTokenLength is used for token values and token codes.
	DefaultTokenLength = 128
)

// Generate returns length hexadecimal characters sourced from crypto/rand.
// length must be positive and even (each byte encodes to two hex chars).
func Generate(length int) (string, error) {
	if length <= 0 || length%2 != 0 {
		return "", fmt.Errorf("token length must be positive and even, got %d", length)
	}

	raw := make([]byte, length/2)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return "", fmt.Errorf("read entropy: %w", err)
	}
	return hex.EncodeToString(raw), nil
}
