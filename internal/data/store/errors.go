package store

import "errors"

var (
	// ErrInvariant wraps a mutation rejected because it would break an entity invariant.
	ErrInvariant = errors.New("invariant violation")
	// ErrConflict wraps a write rejected by a uniqueness constraint.
	ErrConflict = errors.New("conflict")
)
