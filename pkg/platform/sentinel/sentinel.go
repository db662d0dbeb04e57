// Package sentinel holds errors for infrastructure facts. Stores return
// these, optionally wrapped, and services translate them into domain errors
// at the boundary. Validation failures never come through here; those are
// coded domain errors from pkg/domain-errors.
package sentinel

import "errors"

var (
	// ErrNotFound: the record does not exist in the store.
	ErrNotFound = errors.New("not found")
	// ErrConflict: the revision guard failed on a compare-and-swap write.
	ErrConflict = errors.New("conflict")
)
