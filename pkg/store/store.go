// Package store defines the durable key/value contract the storefront engines
// persist through, plus the memory and file backends. The redis and sql
// backends live next to their clients in pkg/redis and pkg/db.
package store

import (
	"context"
	"errors"
)

// Fixed keys owned by the engines. No two engines share a key.
const (
	KeyCart    = "cart"
	KeySession = "session"
	KeyOrders  = "orders"
)

var (
	// ErrClosed is returned by backends after Close.
	ErrClosed = errors.New("store closed")
	// ErrCorrupted signals the backing medium could not be decoded.
	ErrCorrupted = errors.New("store data corrupted")
)

// Store is a minimal durable key/value store holding serialized strings.
// Get reports absence through the boolean, never through an error.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// Pinger is implemented by backends that hold a network or database
// connection.
type Pinger interface {
	Ping(ctx context.Context) error
}
