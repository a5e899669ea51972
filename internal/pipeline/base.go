package pipeline

import (
	"fmt"

	"github.com/jrnull/nullset/internal/expand"
	"github.com/jrnull/nullset/pkg/setrecord"
)

// baseStage seeds dest (the size-3 record): for every v in [1, M], the
// pseudo-set {v, v} is fed to the size-2 expansion. {v, v} is trivially
// nullifiable (v - v = 0) but isn't a
// valid size-2 set for [expand.Expand] (duplicate element fails the
// strictly-ascending precondition), so the single meaningful expansion of
// a degenerate pair - replacing one of the two v's with an equivalent
// pair (a, b) of v, leaving the other v untouched - is done directly here
// rather than through the general engine.
func baseStage(m int64, table *expand.Table, dest *setrecord.Record) error {
	for v := int64(1); v <= m; v++ {
		for _, pair := range table.Pairs(v) {
			triple, ok := baseTriple(v, pair.A, pair.B)
			if !ok {
				continue
			}

			if triple[2] < dest.MinM() || triple[2] > dest.MaxM() {
				continue
			}

			if _, err := dest.Mark(triple[:], setrecord.Nullifiable); err != nil {
				return fmt.Errorf("pipeline: base stage mark %v: %w", triple, err)
			}
		}
	}

	return nil
}

// baseTriple builds the sorted 3-element set {v, a, b}, reporting false
// if any two of the three coincide (the equivalent-pair table already
// excludes a == v or b == v, but a == b is possible and must be dropped).
func baseTriple(v, a, b int64) ([3]int64, bool) {
	t := [3]int64{v, a, b}

	if t[0] == t[1] || t[1] == t[2] || t[0] == t[2] {
		return t, false
	}

	// insertion sort, 3 elements
	if t[0] > t[1] {
		t[0], t[1] = t[1], t[0]
	}

	if t[1] > t[2] {
		t[1], t[2] = t[2], t[1]
	}

	if t[0] > t[1] {
		t[0], t[1] = t[1], t[0]
	}

	return t, true
}
