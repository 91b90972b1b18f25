package storage

import (
	"context"
	"errors"
)

// ErrNotFound indicates a key does not exist.
var ErrNotFound = errors.New("record not found")

// KV is the durable key-value port the session store persists through.
// Implementations must treat Delete of a missing key as success.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}
