// Package cliutil holds small pieces shared by the four sweep binaries
// (create, gen, weed, eval): exit codes, positional fixed-value parsing,
// and the progress/export watch loop the -x flag drives.
package cliutil

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/jrnull/nullset/internal/progress"
	"github.com/jrnull/nullset/pkg/setrecord"
)

// Exit codes shared by all four binaries.
const (
	ExitOK          = 0
	ExitRuntimeErr  = 1
	ExitInvalidArgs = 2
)

// ParseFixedVals parses a comma-separated list of n positive integers, the
// "fixedVals" positional argument `create` takes. n == 0 accepts only the
// empty string (no fixed suffix).
func ParseFixedVals(s string, n int) ([]int64, error) {
	if n == 0 {
		if strings.TrimSpace(s) != "" {
			return nil, fmt.Errorf("fixedVals must be empty when fixedSize is 0, got %q", s)
		}

		return nil, nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("fixedVals has %d value(s), want %d", len(parts), n)
	}

	out := make([]int64, n)

	for i, p := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("fixedVals[%d] = %q: %w", i, p, err)
		}

		out[i] = v
	}

	return out, nil
}

// WatchAndExport reports progress on every arrival of sig until ctx is
// canceled, same as [progress.WatchSignal], additionally re-exporting rec
// to path atomically on each report when export is true. Export errors
// are swallowed except the last, same policy as Report errors.
func WatchAndExport(ctx context.Context, r *progress.Reporter, sig os.Signal, rec *setrecord.Record, path string, export bool) error {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sig)
	defer signal.Stop(ch)

	var lastErr error

	for {
		select {
		case <-ctx.Done():
			return lastErr
		case <-ch:
			if err := r.Report(); err != nil {
				lastErr = fmt.Errorf("progress report: %w", err)
			}

			if export {
				if err := rec.Export(path); err != nil {
					lastErr = fmt.Errorf("progress export: %w", err)
				}
			}
		}
	}
}
