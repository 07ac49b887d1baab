// Package common contains small helpers shared across the SIGT client.
package common

import (
	"crypto/rand"
	"strings"
)

// DigitsOnly strips every non-digit rune from s. Used to normalize masked
// inputs (CPF, phone, license number) before they go on the wire.
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// GenerateRandByteArray returns size cryptographically random bytes.
func GenerateRandByteArray(size int) []byte {
	b := make([]byte, size)
	_, _ = rand.Read(b)
	return b
}

// WipeByteArray zeroes the buffer in place. Callers use it to drop
// passwords from memory as soon as they are no longer needed.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
