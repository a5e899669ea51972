// Package setrecord implements the Set Record (SR): a dense, atomically
// markable bit-array indexed by the combinadic enumeration of a fixed-size
// set of positive integers.
//
// A Record answers two questions about a candidate set cheaply:
// "has anyone already marked this set?" ([Record.Mark]'s return value) and
// "which marked sets exist?" ([Record.Query] / [Record.QueryParallel]).
// Every set of a given size and M-value range maps to exactly one cell via
// [github.com/jrnull/nullset/internal/combinadic], so membership and
// iteration never need a hash table.
//
// # Basic usage
//
//	r := setrecord.New(4)
//	if err := r.Allocate(4, 1, 9, nil); err != nil {
//	    // handle
//	}
//
//	newlyMarked, err := r.Mark([]int64{1, 4, 6, 8}, setrecord.Nullifiable)
//
//	_, err = r.Query(setrecord.Marked, 0, nil, func(set []int64, size int, cell byte) error {
//	    fmt.Println(set)
//	    return nil
//	})
//
// # Concurrency
//
// Mark uses a single atomic fetch-or per cell; Query and QueryParallel only
// read. Multiple goroutines may call Mark and Query concurrently against
// the same Record - marks are monotone (bits only ever turn on) so no
// cross-thread synchronization beyond the per-cell atomic op is required.
// Allocate is NOT safe to call concurrently with Mark/Query/QueryParallel.
//
// # Persistence
//
// [Record.Export] and [Import] implement the on-disk binary format:
// a reserved header region, three text metadata lines, a human banner line,
// and the raw cell bytes starting at offset 0x1000. See format.go.
package setrecord
