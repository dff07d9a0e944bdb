package buffer

import "errors"

// Errors returned by document operations.
var (
	// ErrInvalidLetter indicates a mark or register letter outside a-z.
	ErrInvalidLetter = errors.New("invalid letter")

	// ErrInvalidTabWidth indicates a tab width below 1.
	ErrInvalidTabWidth = errors.New("invalid tab width")

	// ErrInvalidPattern indicates a style or search pattern failed to compile.
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrRuleNotFound indicates a style rule is not registered with the document.
	ErrRuleNotFound = errors.New("style rule not found")

	// ErrRuleInUse indicates a style rule is already registered with a document.
	ErrRuleInUse = errors.New("style rule already registered")

	// ErrForeignMark indicates a mark belongs to a different document.
	ErrForeignMark = errors.New("mark belongs to another document")

	// ErrDestroyedMark indicates an operation on a destroyed mark.
	ErrDestroyedMark = errors.New("mark destroyed")

	// ErrNotFound indicates a search found no match.
	ErrNotFound = errors.New("not found")

	// ErrNoPath indicates a save was requested for a document never loaded
	// from or saved to a file.
	ErrNoPath = errors.New("document has no path")

	// ErrStaleAction indicates a recorded action no longer fits the document.
	ErrStaleAction = errors.New("stale action")

	// ErrClosed indicates an operation on a closed document.
	ErrClosed = errors.New("document closed")
)
