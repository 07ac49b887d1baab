package keystore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrCreateDeviceKey_CreatesThenReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device.key")

	key1, err := LoadOrCreateDeviceKey(path)
	require.NoError(t, err)
	require.Len(t, key1, 32)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	key2, err := LoadOrCreateDeviceKey(path)
	require.NoError(t, err)
	assert.Equal(t, key1, key2, "reload must derive the same key")
}

func TestLoadOrCreateDeviceKey_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device.key")
	require.NoError(t, os.WriteFile(path, []byte("short"), 0o600))

	_, err := LoadOrCreateDeviceKey(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "corrupt")
}
