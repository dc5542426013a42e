// Package kvstore provides the durable client-side storage the cart engine
// persists into: a flat key space holding serialized values, surviving
// process restarts the way browser local storage survives page reloads.
package kvstore

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when the key has never been written or
// has been deleted.
var ErrKeyNotFound = errors.New("key not found")

// Store is a durable key-value store. Implementations must make Set visible
// to a subsequent Get as soon as Set returns.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
