package keystore

import (
	"context"
	"fmt"

	"github.com/sigtbr/sigt-cli/internal/cryptox"
)

// Encrypted decorates a Store so values are sealed with AES-GCM before they
// reach the underlying storage. Keys stay in the clear; they are the fixed,
// well-known entry names.
type Encrypted struct {
	inner Store
	key   []byte
}

func NewEncrypted(inner Store, key []byte) *Encrypted {
	return &Encrypted{inner: inner, key: key}
}

func (e *Encrypted) Get(ctx context.Context, key string) ([]byte, error) {
	blob, err := e.inner.Get(ctx, key)
	if err != nil || blob == nil {
		return nil, err
	}
	plaintext, err := cryptox.Open(blob, e.key)
	if err != nil {
		return nil, fmt.Errorf("failed to open keystore[%s]: %w", key, err)
	}
	return plaintext, nil
}

func (e *Encrypted) Set(ctx context.Context, key string, value []byte) error {
	blob, err := cryptox.Seal(value, e.key)
	if err != nil {
		return fmt.Errorf("failed to seal keystore[%s]: %w", key, err)
	}
	return e.inner.Set(ctx, key, blob)
}

func (e *Encrypted) Delete(ctx context.Context, key string) error {
	return e.inner.Delete(ctx, key)
}

func (e *Encrypted) SetAll(ctx context.Context, entries map[string][]byte) error {
	sealed := make(map[string][]byte, len(entries))
	for key, value := range entries {
		blob, err := cryptox.Seal(value, e.key)
		if err != nil {
			return fmt.Errorf("failed to seal keystore[%s]: %w", key, err)
		}
		sealed[key] = blob
	}
	return e.inner.SetAll(ctx, sealed)
}

func (e *Encrypted) DeleteAll(ctx context.Context, keys ...string) error {
	return e.inner.DeleteAll(ctx, keys...)
}

func (e *Encrypted) Clear(ctx context.Context) error {
	return e.inner.Clear(ctx)
}
