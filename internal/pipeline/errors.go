package pipeline

import "errors"

// ErrInvalidArgs indicates a malformed Config was passed to Driver.Run.
var ErrInvalidArgs = errors.New("pipeline: invalid args")

// ErrThread wraps the error a worker goroutine's QueryParallel call
// returned, whether it came from QueryParallel itself or from the
// per-cell callback.
var ErrThread = errors.New("pipeline: worker failed")
