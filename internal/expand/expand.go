// Package expand implements the Expansion engine: given a nullifiable set
// of size n, it generates the "reachable" sets of size n+1 by superset
// extension and by arithmetic equivalent-pair substitution.
package expand

import "fmt"

// Flags selects which expansion modes [Expand] runs. Bitwise-orable.
type Flags uint8

const (
	// Supers enumerates s ∪ {v} for every v in [1, M] not already in s.
	Supers Flags = 1 << 0

	// MutAdd substitutes s[i] with an additive equivalent pair (a+b=v or
	// b-a=v).
	MutAdd Flags = 1 << 1

	// MutMul substitutes s[i] with a multiplicative equivalent pair
	// (a*b=v or b/a=v).
	MutMul Flags = 1 << 2
)

// ErrInvalidArgs indicates a malformed set was passed to Expand.
var ErrInvalidArgs = fmt.Errorf("expand: invalid args")

// Expand generates every size-(n+1) set reachable from set (size n) that
// falls within [minM, maxM], and invokes fn with each. set must be
// strictly ascending with every element in [1, table.M()].
//
// Superset expansion and arithmetic expansion are independent and may
// both be requested in one call; each emits via fn directly (no
// deduplication set is built - superset expansion relies on cursor
// discipline and arithmetic expansion relies on per-pair collision
// checks).
func Expand(set []int64, minM, maxM int64, flags Flags, table *Table, fn func([]int64) error) error {
	if err := validate(set, table.M()); err != nil {
		return err
	}

	if flags&Supers != 0 {
		if err := expandSupersets(set, table.M(), minM, maxM, fn); err != nil {
			return err
		}
	}

	if flags&(MutAdd|MutMul) != 0 {
		if err := expandMutations(set, minM, maxM, flags, table, fn); err != nil {
			return err
		}
	}

	return nil
}

func validate(set []int64, m int64) error {
	if len(set) == 0 {
		return fmt.Errorf("%w: empty set", ErrInvalidArgs)
	}

	if set[0] < 1 {
		return fmt.Errorf("%w: non-positive element", ErrInvalidArgs)
	}

	if set[len(set)-1] > m {
		return fmt.Errorf("%w: element %d exceeds M=%d", ErrInvalidArgs, set[len(set)-1], m)
	}

	for i := 1; i < len(set); i++ {
		if set[i-1] >= set[i] {
			return fmt.Errorf("%w: not strictly ascending", ErrInvalidArgs)
		}
	}

	return nil
}

// expandSupersets walks v from 1 to the table's global M maintaining an
// insertion cursor into set; when v equals the element just past the
// cursor it advances the cursor instead of emitting (that would duplicate
// an element already in set). Emissions whose M-value falls outside
// [minM, maxM] - the destination SR's range - are dropped.
func expandSupersets(set []int64, globalM, minM, maxM int64, fn func([]int64) error) error {
	n := len(set)
	t := make([]int64, n+1)

	pos := 0

	for v := int64(1); v <= globalM; v++ {
		if pos < n && set[pos] == v {
			pos++
			continue
		}

		buildSuperset(set, t, pos, v)

		m := t[n]
		if m < minM || m > maxM {
			continue
		}

		if err := fn(t); err != nil {
			return err
		}
	}

	return nil
}

// buildSuperset writes sorted(set ∪ {v}) into t (length len(set)+1), given
// that v does not already occur at set[pos] (the caller's cursor
// invariant: set[:pos] are all < v).
func buildSuperset(set []int64, t []int64, pos int, v int64) {
	copy(t, set[:pos])
	t[pos] = v
	copy(t[pos+1:], set[pos:])
}

// expandMutations implements the arithmetic equivalent-pair substitution:
// for each position i, for each equivalent pair (a,b) of set[i] enabled by
// flags, replace set[i] with a and b merged into the remaining elements.
func expandMutations(set []int64, minM, maxM int64, flags Flags, table *Table, fn func([]int64) error) error {
	n := len(set)
	rest := make([]int64, n-1)
	t := make([]int64, n+1)

	var want uint8
	if flags&MutAdd != 0 {
		want |= CatAdd
	}

	if flags&MutMul != 0 {
		want |= CatMul
	}

	for i := 0; i < n; i++ {
		copy(rest, set[:i])
		copy(rest[i:], set[i+1:])

		for _, pair := range table.Pairs(set[i]) {
			if pair.Categories&want == 0 {
				continue
			}

			ok := mergePair(rest, pair.A, pair.B, t)
			if !ok {
				continue
			}

			m := t[n]
			if m < minM || m > maxM {
				continue
			}

			if err := fn(t); err != nil {
				return err
			}
		}
	}

	return nil
}

// mergePair writes sorted(rest ∪ {a, b}) into out (length len(rest)+2) in
// linear time, reporting false if a or b collides with an element already
// in rest (the expansion is dropped, not emitted, on collision).
func mergePair(rest []int64, a, b int64, out []int64) bool {
	if a > b {
		a, b = b, a
	}

	ri := 0
	oi := 0
	toInsert := [2]int64{a, b}
	ii := 0

	for ri < len(rest) || ii < 2 {
		switch {
		case ii == 2:
			out[oi] = rest[ri]
			ri++
		case ri == len(rest):
			out[oi] = toInsert[ii]
			ii++
		case rest[ri] == toInsert[ii]:
			return false
		case rest[ri] < toInsert[ii]:
			out[oi] = rest[ri]
			ri++
		default:
			out[oi] = toInsert[ii]
			ii++
		}

		oi++
	}

	return true
}
