package repository

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrMalformed = errors.New("stored data is malformed")
)

// newID returns a time-ordered identifier (UUIDv7)
func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", errors.Wrap(err, "generate id")
	}
	return id.String(), nil
}
