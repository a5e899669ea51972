package setrecord

import (
	"fmt"

	"github.com/jrnull/nullset/internal/combinadic"
)

// Allocate (re)sizes and zero-fills the Record's cell array for a variable
// prefix of length varSize over [minM, maxM], optionally followed by a
// fixed suffix of larger constants.
//
// minM is normalized up to varSize (no set of that prefix length can have
// an M-value smaller than its own size). Not safe to call concurrently
// with Mark/Query/QueryParallel on the same Record.
func (r *Record) Allocate(varSize int, minM, maxM int64, fixed []int64) error {
	if len(fixed) > maxFixedValues {
		return fmt.Errorf("%w: fixed values length %d exceeds %d", ErrInvalidArgs, len(fixed), maxFixedValues)
	}

	if varSize+len(fixed) != r.size {
		return fmt.Errorf("%w: var_size(%d) + fixed_size(%d) != size(%d)", ErrInvalidArgs, varSize, len(fixed), r.size)
	}

	for i := 1; i < len(fixed); i++ {
		if fixed[i-1] >= fixed[i] {
			return fmt.Errorf("%w: fixed values not strictly ascending", ErrInvalidArgs)
		}
	}

	if len(fixed) > 0 && fixed[0] <= maxM {
		return fmt.Errorf("%w: first fixed value %d <= max_m %d", ErrInvalidArgs, fixed[0], maxM)
	}

	if int64(varSize) > minM {
		minM = int64(varSize)
	}

	if maxM < minM {
		return fmt.Errorf("%w: max_m(%d) < min_m(%d)", ErrInvalidArgs, maxM, minM)
	}

	offsetC := combinadic.MCN(minM-1, int64(varSize))
	total := combinadic.MCN(maxM, int64(varSize)) - offsetC

	cells, err := mmapAnon(padTo4(total))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOutOfMemory, err)
	}

	if r.cells != nil {
		_ = munmapAnon(r.cells)
	}

	r.varSize = varSize
	r.fixedSize = len(fixed)

	var fv [maxFixedValues]int64

	copy(fv[:], fixed)
	r.fixedValues = fv

	r.minM = minM
	r.maxM = maxM
	r.cells = cells
	r.total = total
	r.offsetC = offsetC

	return nil
}

// Release frees the cell array. The Record reverts to the unallocated
// state New produced; Allocate may be called again.
func (r *Record) Release() error {
	if r.cells == nil {
		return nil
	}

	err := munmapAnon(r.cells)
	r.cells = nil
	r.total = 0

	return err
}

// validateSet checks that set is the Record's declared size, strictly
// ascending, and every element >= 1. Does not check M-value range - that
// is a deliberate skip condition handled by the caller (Mark returns 0,
// not an error, when out of range).
func (r *Record) validateSet(set []int64) error {
	if len(set) != r.size {
		return fmt.Errorf("%w: set length %d != record size %d", ErrInvalidArgs, len(set), r.size)
	}

	if set[0] < 1 {
		return fmt.Errorf("%w: set contains non-positive element", ErrInvalidArgs)
	}

	for i := 1; i < len(set); i++ {
		if set[i-1] >= set[i] {
			return fmt.Errorf("%w: set not strictly ascending", ErrInvalidArgs)
		}
	}

	return nil
}

// cellIndex computes the absolute cell index for set's variable prefix and
// reports whether set falls within this Record's addressable range (both
// the [minM, maxM] bound on the variable prefix's M-value and an exact
// match on the fixed suffix).
func (r *Record) cellIndex(set []int64) (idx uint64, ok bool) {
	varPart := set[:r.varSize]
	m := varPart[len(varPart)-1]

	if m < r.minM || m > r.maxM {
		return 0, false
	}

	for i := 0; i < r.fixedSize; i++ {
		if set[r.varSize+i] != r.fixedValues[i] {
			return 0, false
		}
	}

	idx = combinadic.IndexOf(varPart) - r.offsetC

	return idx, true
}

// Mark ORs mask into the cell addressed by set and reports whether any new
// bit became set (i.e. the cell's value before the OR did not already
// contain all of mask).
//
// Returns (false, nil) - a deliberate skip, not an error - when set's
// M-value falls outside [MinM, MaxM] or its fixed suffix does not match
// this Record's. Returns a non-nil error only for a malformed set.
func (r *Record) Mark(set []int64, mask byte) (bool, error) {
	if err := r.validateSet(set); err != nil {
		return false, err
	}

	idx, ok := r.cellIndex(set)
	if !ok {
		return false, nil
	}

	before := atomicFetchOrByte(r.cells, idx, mask)

	return before&mask != mask, nil
}

// At returns the raw byte currently stored for set, and whether set falls
// within this Record's addressable range.
func (r *Record) At(set []int64) (byte, bool, error) {
	if err := r.validateSet(set); err != nil {
		return 0, false, err
	}

	idx, ok := r.cellIndex(set)
	if !ok {
		return 0, false, nil
	}

	return atomicLoadByte(r.cells, idx), true, nil
}
