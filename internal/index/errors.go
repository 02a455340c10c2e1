package index

import "errors"

var (
	// ErrNotFound is returned when no entry exists for a path.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned by Add when the path is already indexed.
	ErrDuplicate = errors.New("duplicate entry")

	// ErrConstraint is returned when a row violates a schema constraint.
	ErrConstraint = errors.New("constraint violation")
)
