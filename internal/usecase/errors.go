package usecase

import "errors"

// Business failure taxonomy. Handlers map these with errors.Is; store
// constraint violations and transport failures pass through untranslated.
var (
	// ErrNotFound: a record the operation requires does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument: caller-supplied data fails a precondition that
	// is checkable without touching the store.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConflict: a business invariant is violated given current persisted
	// state, including a guarded update lost to a concurrent caller.
	ErrConflict = errors.New("state conflict")
)
