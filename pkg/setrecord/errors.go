package setrecord

import "errors"

// Error classification codes, one per kind in the error taxonomy.
//
// Callers classify errors with errors.Is; implementations may wrap these
// with additional context via fmt.Errorf("...: %w", ...).
var (
	// ErrInvalidArgs indicates a malformed set or an out-of-range size
	// was passed to a public entry point.
	ErrInvalidArgs = errors.New("setrecord: invalid args")

	// ErrOutOfMemory indicates an allocation (cell array or scratch
	// buffer) could not be satisfied.
	ErrOutOfMemory = errors.New("setrecord: out of memory")

	// ErrWrongSize indicates a persisted file's declared cell count does
	// not match the bytes actually present.
	ErrWrongSize = errors.New("setrecord: wrong size")

	// ErrInvalidFile indicates a persisted file's header could not be
	// parsed.
	ErrInvalidFile = errors.New("setrecord: invalid file")

	// ErrIO wraps a read/write/seek/open failure against a persisted
	// file.
	ErrIO = errors.New("setrecord: io error")
)
