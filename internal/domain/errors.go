package domain

import "errors"

var (
	// ErrNotFound marks a lookup for a conversation that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument marks caller input that must be rejected before it
	// reaches the store, such as a non-positive page number.
	ErrInvalidArgument = errors.New("invalid argument")
)
