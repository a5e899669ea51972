package setrecord

import (
	"fmt"
	"sync/atomic"

	"github.com/jrnull/nullset/internal/combinadic"
)

// progressPeriod is how often (in cells visited) a Query/QueryParallel
// worker publishes to its progress slot.
const progressPeriod = 4096

// matches reports whether cell byte b satisfies the (mask, bits)
// predicate:
//   - mask != 0: (b & mask) == (bits & mask)
//   - mask == 0, bits != 0: (b & bits) != 0
//   - mask == 0, bits == 0: always true (wildcard)
func matches(b, mask, bits byte) bool {
	if mask != 0 {
		return b&mask == bits&mask
	}

	if bits != 0 {
		return b&bits != 0
	}

	return true
}

// reconstruct builds the full set (variable prefix + fixed suffix) for
// absolute cell index idx into out, which must have length r.size.
func (r *Record) reconstruct(idx uint64, out []int64) {
	combinadic.SetFromIndex(r.varSize, idx+r.offsetC, out[:r.varSize])

	for i := 0; i < r.fixedSize; i++ {
		out[r.varSize+i] = r.fixedValues[i]
	}
}

// Query scans cells in strictly increasing combinadic index order. For
// each cell whose byte satisfies the (mask, bits) predicate, the full set
// is reconstructed and fn is invoked with it. Returns the number of
// matches, or the first error fn returns (scan stops at that point).
//
// progress, if non-nil, is advanced by [progressPeriod] cells' worth of
// work approximately every progressPeriod cells visited - a racy,
// best-effort counter; exactness isn't needed for a progress indicator.
//
// fn's set slice is borrowed and reused across calls; callers that need to
// retain it must copy.
func (r *Record) Query(mask, bits byte, progress *atomic.Uint64, fn func(set []int64, size int, cell byte) error) (int, error) {
	return r.queryStride(mask, bits, 1, 0, progress, fn)
}

// QueryParallel is Query restricted to cells i with i mod concurrents ==
// mod, starting from mod. Every cell in [0, Total) is visited by exactly
// one (concurrents, mod) pair across the full [0, concurrents) range,
// disjointly; callers typically run one goroutine per mod value. Ordering
// across different mod values is not guaranteed; within one call, cells
// are still visited in increasing index order.
func (r *Record) QueryParallel(mask, bits byte, concurrents, mod int, progress *atomic.Uint64, fn func(set []int64, size int, cell byte) error) (int, error) {
	if concurrents < 1 || mod < 0 || mod >= concurrents {
		return 0, fmt.Errorf("%w: concurrents=%d mod=%d", ErrInvalidArgs, concurrents, mod)
	}

	return r.queryStride(mask, bits, uint64(concurrents), uint64(mod), progress, fn)
}

func (r *Record) queryStride(mask, bits byte, stride, start uint64, progress *atomic.Uint64, fn func([]int64, int, byte) error) (int, error) {
	if r.total == 0 || start >= r.total {
		return 0, nil
	}

	set := make([]int64, r.size)
	r.reconstruct(start, set)

	matched := 0
	visited := uint64(0)
	sincePublish := uint64(0)

	idx := start
	for idx < r.total {
		b := atomicLoadByte(r.cells, idx)

		if matches(b, mask, bits) {
			if err := fn(set, r.size, b); err != nil {
				return matched, err
			}

			matched++
		}

		visited++
		sincePublish++

		if progress != nil && sincePublish >= progressPeriod {
			progress.Add(sincePublish)
			sincePublish = 0
		}

		if idx+stride >= r.total {
			break
		}

		combinadic.Advance(set[:r.varSize], r.varSize, stride)
		idx += stride
	}

	if progress != nil && sincePublish > 0 {
		progress.Add(sincePublish)
	}

	return matched, nil
}
