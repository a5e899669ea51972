// Package pipeline composes the combinadic indexer, set record, expansion
// engine, and exhaustive nullifiability test into a full sweep: for a
// target (N, M, T), find every innullifiable set of size N over [1, M].
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/jrnull/nullset/internal/expand"
	"github.com/jrnull/nullset/internal/nulltest"
	"github.com/jrnull/nullset/internal/progress"
	"github.com/jrnull/nullset/pkg/setrecord"
)

// Result is the outcome of one sweep.
type Result struct {
	// RunID is a random identifier tagging this sweep, set only when
	// Config.TagRunID was true. Empty otherwise.
	RunID string

	// Innullifiable holds every size-N set over [1, M] that survived
	// generation and the verify stage, in combinadic order.
	Innullifiable [][]int64
}

// Driver runs one sweep. The zero value is ready to use.
type Driver struct{}

// Run executes the full sweep described by cfg: one SR per size in
// [3, N], a base stage seeding size 3, generation stages cascading
// nullifiable sets upward by expansion, a verify stage running the
// exhaustive test on whatever remains unmarked at size N, and an emit
// stage collecting the final residue.
//
// Every SR this call allocates is released before Run returns, including
// on error.
func (d *Driver) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	table := expand.BuildTable(cfg.M)

	records := make([]*setrecord.Record, cfg.N+1) // records[s] for s in [3, N]

	defer func() {
		for _, r := range records {
			if r != nil {
				_ = r.Release()
			}
		}
	}()

	for s := 3; s <= cfg.N; s++ {
		r := setrecord.New(s)
		if err := r.Allocate(s, 1, cfg.M, nil); err != nil {
			return nil, fmt.Errorf("pipeline: allocate size-%d record: %w", s, err)
		}

		records[s] = r
	}

	result := &Result{}
	if cfg.TagRunID {
		result.RunID = NewRunID()
	}

	if err := baseStage(cfg.M, table, records[3]); err != nil {
		return nil, err
	}

	for s := 3; s < cfg.N; s++ {
		if err := d.generationStage(ctx, cfg, table, records[s], records[s+1]); err != nil {
			return nil, err
		}
	}

	if err := d.verifyStage(ctx, cfg, records[cfg.N]); err != nil {
		return nil, err
	}

	sets, err := d.emitStage(ctx, records[cfg.N])
	if err != nil {
		return nil, err
	}

	result.Innullifiable = sets

	return result, nil
}

// generationStage expands every size-s entry matching the "nullifiable,
// not merely a superset" predicate (or, in Thorough mode, every
// nullifiable entry regardless of ONLY_SUPERSET) into size s+1, fanned
// out over cfg.Threads goroutines by QueryParallel's mod stride,
// optionally pushing progress on cfg.ProgressSignal while it runs.
func (d *Driver) generationStage(ctx context.Context, cfg Config, table *expand.Table, src, dest *setrecord.Record) error {
	mask, bits := byte(setrecord.Marked), byte(setrecord.Nullifiable)
	if cfg.Thorough {
		mask, bits = setrecord.Nullifiable, setrecord.Nullifiable
	}

	expandSet := func(set []int64) error {
		if err := expand.Expand(set, dest.MinM(), dest.MaxM(), expand.Supers, table, func(ns []int64) error {
			_, err := dest.Mark(ns, setrecord.Marked)
			return err
		}); err != nil {
			return err
		}

		return expand.Expand(set, dest.MinM(), dest.MaxM(), expand.MutAdd|expand.MutMul, table, func(ns []int64) error {
			_, err := dest.Mark(ns, setrecord.Nullifiable)
			return err
		})
	}

	return d.runWorkers(ctx, cfg, src, mask, bits, func(set []int64, _ int, _ byte) error {
		return expandSet(set)
	})
}

// verifyStage runs the exhaustive test on every cell still unmarked at
// the target size, marking it NULLIFIABLE if the test finds a reduction
// to zero.
func (d *Driver) verifyStage(ctx context.Context, cfg Config, r *setrecord.Record) error {
	return d.runWorkers(ctx, cfg, r, setrecord.Nullifiable, 0, func(set []int64, _ int, _ byte) error {
		res, err := nulltest.Test(set)
		if err != nil {
			return fmt.Errorf("pipeline: verify %v: %w", set, err)
		}

		if res == nulltest.Nullifiable {
			if _, err := r.Mark(set, setrecord.Nullifiable); err != nil {
				return fmt.Errorf("pipeline: verify mark %v: %w", set, err)
			}
		}

		return nil
	})
}

// emitStage collects every cell with no marked bit set - the final
// innullifiable residue - in combinadic order. Single-threaded: the
// output must preserve index order, and the result
// set is expected to be small relative to the SR it's drawn from.
func (d *Driver) emitStage(ctx context.Context, r *setrecord.Record) ([][]int64, error) {
	var out [][]int64

	_, err := r.Query(setrecord.Marked, 0, nil, func(set []int64, _ int, _ byte) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		out = append(out, append([]int64(nil), set...))

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline: emit stage: %w", err)
	}

	// Query already visits cells in strictly increasing combinadic index
	// order (highest element most significant), the order Result documents
	// - no further sort needed.
	return out, nil
}

// runWorkers fans a QueryParallel scan of r out over cfg.Threads
// goroutines, one per mod value, each invoking fn for cells matching
// (mask, bits). If cfg.ProgressOut is set, a dedicated goroutine pushes a
// progress record on every arrival of cfg.progressSignal() until the scan
// finishes. A worker stops at its own first error; the other workers are
// not interrupted and run their scans to completion, after which the
// first error recorded (wrapped in ErrThread) is returned.
func (d *Driver) runWorkers(ctx context.Context, cfg Config, r *setrecord.Record, mask, bits byte, fn func([]int64, int, byte) error) error {
	reporter := progress.NewReporter(cfg.Threads, r.Total(), cfg.ProgressOut, nil)

	var watchCancel context.CancelFunc

	var watchDone chan error

	if cfg.ProgressOut != nil {
		var watchCtx context.Context

		watchCtx, watchCancel = context.WithCancel(ctx)
		watchDone = make(chan error, 1)

		go func() {
			watchDone <- progress.WatchSignal(watchCtx, reporter, cfg.progressSignal())
		}()
	}

	var wg sync.WaitGroup

	var firstErr atomic.Pointer[error]

	for mod := 0; mod < cfg.Threads; mod++ {
		mod := mod

		wg.Go(func() {
			if err := ctx.Err(); err != nil {
				storeFirstErr(&firstErr, err)
				return
			}

			counter := reporter.Counter(mod)

			_, err := r.QueryParallel(mask, bits, cfg.Threads, mod, counter, fn)
			if err != nil {
				storeFirstErr(&firstErr, fmt.Errorf("%w: %w", ErrThread, err))
			}
		})
	}

	wg.Wait()

	if watchCancel != nil {
		watchCancel()
		<-watchDone
	}

	if p := firstErr.Load(); p != nil {
		return *p
	}

	return nil
}

func storeFirstErr(p *atomic.Pointer[error], err error) {
	if err == nil {
		return
	}

	p.CompareAndSwap(nil, &err)
}
