// Package form holds the editable client and event forms. A form validates
// user input locally and persists through a repository only when valid.
package form

import (
	"context"
	"errors"
)

var (
	// ErrSaveFailed wraps storage failures so callers can show a generic message
	ErrSaveFailed = errors.New("failed to save")
	// ErrNotBound is returned when saving an edit form that has no record
	ErrNotBound = errors.New("form is not bound to a saved record")
)

// Saveable is implemented by forms that can validate and persist themselves
type Saveable[T any] interface {
	Validate() error
	Save(ctx context.Context) (*T, error)
}
