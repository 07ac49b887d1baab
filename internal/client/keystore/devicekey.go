package keystore

import (
	"fmt"
	"os"

	"github.com/sigtbr/sigt-cli/internal/common"
	"github.com/sigtbr/sigt-cli/internal/cryptox"
)

const (
	saltSize   = 16
	secretSize = 32
)

// LoadOrCreateDeviceKey returns the AES key protecting keystore values.
// The backing secret lives in a 0600 file at path; it is created with fresh
// random material on first run. The derived key never touches disk.
func LoadOrCreateDeviceKey(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		raw = append(common.GenerateRandByteArray(saltSize), common.GenerateRandByteArray(secretSize)...)
		if err := os.WriteFile(path, raw, 0o600); err != nil {
			return nil, fmt.Errorf("failed to write device key file: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to read device key file: %w", err)
	}

	if len(raw) != saltSize+secretSize {
		return nil, fmt.Errorf("device key file %s is corrupt", path)
	}

	return cryptox.DeriveKey(raw[saltSize:], raw[:saltSize]), nil
}
