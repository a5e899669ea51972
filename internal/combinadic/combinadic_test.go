package combinadic

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMCN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		m, n int64
		want uint64
	}{
		{0, 0, 1},
		{5, 0, 1},
		{5, 5, 1},
		{5, 6, 0},
		{-1, 3, 0},
		{5, 2, 10},
		{10, 3, 120},
		{52, 5, 2598960},
	}

	for _, testCase := range tests {
		got := MCN(testCase.m, testCase.n)
		if got != testCase.want {
			t.Errorf("MCN(%d, %d) = %d, want %d", testCase.m, testCase.n, got, testCase.want)
		}
	}
}

func TestIndexOfAndSetFromIndexRoundTrip(t *testing.T) {
	t.Parallel()

	tests := [][]int64{
		{1, 2, 3},
		{1, 2, 4},
		{4, 5, 6},
		{1, 4, 6, 8},
		{5, 7, 8, 9},
		{1, 2, 3, 4, 5},
		{10, 20, 30},
	}

	for _, set := range tests {
		idx := IndexOf(set)

		got := make([]int64, len(set))
		SetFromIndex(len(set), idx, got)

		if diff := cmp.Diff(set, got); diff != "" {
			t.Errorf("round trip for %v (index %d) mismatch (-want +got):\n%s", set, idx, diff)
		}
	}
}

func TestSetFromIndexEnumeratesInOrder(t *testing.T) {
	t.Parallel()

	// All 3-subsets of [1,6] in combinadic order must be strictly ascending
	// and each IndexOf(SetFromIndex(i)) == i.
	const n, maxM = 3, 6

	total := MCN(maxM, n)

	set := make([]int64, n)

	for i := uint64(0); i < total; i++ {
		SetFromIndex(n, i, set)

		for j := 1; j < n; j++ {
			if set[j-1] >= set[j] {
				t.Fatalf("index %d: set %v not strictly ascending", i, set)
			}
		}

		if got := IndexOf(set); got != i {
			t.Errorf("IndexOf(SetFromIndex(%d)) = %d, want %d", i, got, i)
		}
	}
}

func TestAdvance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		set  []int64
		k    uint64
	}{
		{"fast path small step", []int64{1, 5, 9}, 2},
		{"carry across positions", []int64{1, 2, 3}, 1},
		{"large jump", []int64{1, 2, 3, 4}, 500},
		{"zero step", []int64{3, 6, 7, 8}, 0},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			n := len(testCase.set)
			before := IndexOf(testCase.set)

			set := append([]int64(nil), testCase.set...)
			Advance(set, n, testCase.k)

			want := before + testCase.k

			got := IndexOf(set)
			if got != want {
				t.Errorf("Advance(%v, %d) index = %d, want %d", testCase.set, testCase.k, got, want)
			}

			for i := 1; i < n; i++ {
				if set[i-1] >= set[i] {
					t.Errorf("Advance(%v, %d) = %v not strictly ascending", testCase.set, testCase.k, set)
				}
			}
		})
	}
}
