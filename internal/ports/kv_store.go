package ports

import "context"

// Port: durable per-key string storage. Writes are not transactional
// across keys.
type KeyValueStore interface {
	// Return the value stored under key; ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Store value under key, replacing any previous value.
	Set(ctx context.Context, key string, value string) error
	// Remove key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}
