// Package progress implements the progress reporter: aggregation of
// per-worker atomic counters into a fixed 24-byte little-endian record
// (current, total, auxiliary), pushed to a writer - in production a named
// pipe - either on demand or each time SIGUSR1 arrives.
package progress

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
)

// RecordSize is the wire size of one progress record: three little-endian
// uint64 values.
const RecordSize = 24

// Reporter aggregates per-worker progress counters and pushes snapshots to
// out. Safe for concurrent use: workers call [Reporter.Counter] once (at
// stage start) and then mutate their own counter directly; Report sums
// racily across all of them - an exact total isn't needed for a progress
// indicator.
type Reporter struct {
	workers []atomic.Uint64
	total   uint64
	aux     func() uint64
	out     io.Writer
}

// NewReporter returns a Reporter with workerCount per-worker counters, a
// fixed total (the cell count being scanned this stage), and writes to
// out. aux, if non-nil, is called fresh on every Report to compute the
// auxiliary field (e.g. the current unmarked-count).
func NewReporter(workerCount int, total uint64, out io.Writer, aux func() uint64) *Reporter {
	return &Reporter{
		workers: make([]atomic.Uint64, workerCount),
		total:   total,
		aux:     aux,
		out:     out,
	}
}

// Counter returns the atomic counter for worker i. Panics if i is out of
// range - a caller bug (worker count is fixed at construction), not a
// runtime condition.
func (r *Reporter) Counter(i int) *atomic.Uint64 {
	return &r.workers[i]
}

// Current sums every worker's counter.
func (r *Reporter) Current() uint64 {
	var sum uint64
	for i := range r.workers {
		sum += r.workers[i].Load()
	}

	return sum
}

// Report writes one (current, total, aux) record to out. aux is 0 if no
// aux function was configured.
func (r *Reporter) Report() error {
	var aux uint64
	if r.aux != nil {
		aux = r.aux()
	}

	var buf [RecordSize]byte

	binary.LittleEndian.PutUint64(buf[0:8], r.Current())
	binary.LittleEndian.PutUint64(buf[8:16], r.total)
	binary.LittleEndian.PutUint64(buf[16:24], aux)

	if _, err := r.out.Write(buf[:]); err != nil {
		return fmt.Errorf("progress: write report: %w", err)
	}

	return nil
}

// WatchSignal reports once every time sig is received, until ctx is
// canceled: a goroutine blocks on a signal channel and reports on each
// wakeup. Errors from Report are swallowed except the last, which is
// returned when ctx is canceled (a write failure on a severed pipe should
// not crash the stage that's still making progress).
func WatchSignal(ctx context.Context, r *Reporter, sig os.Signal) error {
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
				lastErr = err
			}
		}
	}
}

// DefaultSignal is the progress signal used when none is configured.
var DefaultSignal os.Signal = syscall.SIGUSR1
