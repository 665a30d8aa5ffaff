package repository

import "errors"

var (
	// ErrNotFound is returned by every adapter when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write hits a uniqueness constraint.
	ErrConflict = errors.New("record conflicts with an existing one")
)
