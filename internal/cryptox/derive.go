package cryptox

import "golang.org/x/crypto/argon2"

// DeriveKey stretches a device secret into a 256-bit AES key using argon2id.
// Parameters follow the RFC 9106 low-memory recommendation.
func DeriveKey(secret, salt []byte) []byte {
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, 32)
}
