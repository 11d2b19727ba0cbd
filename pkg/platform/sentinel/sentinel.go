// Package sentinel holds the infrastructure errors stores and caches return.
// Services translate them into domain errors; transports never see them.
package sentinel

import "errors"

var (
	// ErrNotFound means the record or cache entry does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict means a record with the same identity already exists.
	ErrConflict = errors.New("conflict")
)
