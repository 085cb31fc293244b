// Package store is the key-value port every record list is persisted through.
// Values are opaque strings (JSON arrays in practice); the store enforces no
// schema.
package store

import (
	"context"

	"github.com/pkg/errors"
)

// Keys used by the application
const (
	KeyClients = "clients"
	KeyEvents  = "events"
)

var (
	// ErrConflict is returned when an Update lost every compare-and-swap attempt
	ErrConflict = errors.New("concurrent write conflict")
	// ErrClosed is returned by stores used after Close
	ErrClosed = errors.New("store is closed")
)

// maxUpdateAttempts bounds optimistic retries in Update implementations
const maxUpdateAttempts = 5

// UpdateFunc receives the current value of a key (ok is false when the key
// has never been written) and returns the value to store. Returning an error
// aborts the update without writing.
type UpdateFunc func(current string, ok bool) (string, error)

// Store is an async-style key-value blob store
type Store interface {
	// GetItem returns the value for key; ok is false when the key is absent
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)

	// SetItem overwrites the value for key (last write wins)
	SetItem(ctx context.Context, key, value string) error

	// Update runs one read-modify-write cycle on key atomically with respect
	// to other Update calls on the same store
	Update(ctx context.Context, key string, fn UpdateFunc) error

	// Close releases the backend
	Close() error
}
