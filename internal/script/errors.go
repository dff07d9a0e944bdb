package script

import "errors"

// Errors for script state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("script state is closed")

	// ErrNoDocument is returned when creating a state without a document.
	ErrNoDocument = errors.New("script state needs a document")
)
