// Package keystore implements the secure on-device key-value store that
// backs the session. Values are opaque byte strings addressed by key; the
// multi-key operations are atomic so a session is never half-written.
package keystore

import "context"

// Store is the storage capability handed to the session layer.
//
// Get returns (nil, nil) when the key is absent. Delete is idempotent.
// SetAll and DeleteAll apply all changes in a single transaction.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	SetAll(ctx context.Context, entries map[string][]byte) error
	DeleteAll(ctx context.Context, keys ...string) error
	Clear(ctx context.Context) error
}
