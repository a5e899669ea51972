package pipeline

import (
	"fmt"
	"io"
	"os"

	"github.com/jrnull/nullset/internal/progress"
)

// Config describes one full sweep: find every innullifiable set of size N
// over [1, M].
type Config struct {
	// N is the target set size. Must be >= 3.
	N int

	// M is the maximum element value. Must be >= N.
	M int64

	// Threads is the worker pool size per stage. Must be >= 1.
	Threads int

	// Thorough also re-expands ONLY_SUPERSET-marked cells during
	// generation stages, trading runtime for completeness at a bounded M.
	// Default off.
	Thorough bool

	// ProgressOut, if non-nil, receives a 24-byte progress record every
	// time ProgressSignal arrives during a generation or verify stage.
	ProgressOut io.Writer

	// ProgressSignal overrides the signal that triggers a progress push.
	// Defaults to progress.DefaultSignal (SIGUSR1) when ProgressOut is
	// set and this is nil.
	ProgressSignal os.Signal

	// TagRunID assigns a random run identifier returned in Result.RunID,
	// for correlating progress reports/export snapshots across a sweep
	// (see runid.go).
	TagRunID bool
}

// validate checks Config's structural preconditions. Malformed
// arguments are rejected at entry with ErrInvalidArgs.
func (c Config) validate() error {
	if c.N < 3 {
		return fmt.Errorf("%w: N=%d must be >= 3", ErrInvalidArgs, c.N)
	}

	if c.M < int64(c.N) {
		return fmt.Errorf("%w: M=%d must be >= N=%d", ErrInvalidArgs, c.M, c.N)
	}

	if c.Threads < 1 {
		return fmt.Errorf("%w: Threads=%d must be >= 1", ErrInvalidArgs, c.Threads)
	}

	return nil
}

func (c Config) progressSignal() os.Signal {
	if c.ProgressSignal != nil {
		return c.ProgressSignal
	}

	return progress.DefaultSignal
}
