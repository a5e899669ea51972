// Package nulltest implements the Exhaustive Nullifiability Test: a
// recursive prover that decides whether some sequence of binary arithmetic
// operations (+, -, *, /), constrained to positive integer intermediates,
// reduces a set of positive integers to zero.
package nulltest

import "fmt"

// Result is the outcome of [Test].
type Result int

const (
	// Innullifiable means no sequence of operations reaches zero.
	Innullifiable Result = iota
	// Nullifiable means some sequence of operations reaches zero.
	Nullifiable
)

func (r Result) String() string {
	if r == Nullifiable {
		return "nullifiable"
	}

	return "innullifiable"
}

// maxDepth guards the recursion against pathological input sizes; every
// real call in this codebase passes sets no larger than N from a single
// (N, M) sweep, which is always far below this bound.
const maxDepth = 64

// Test decides nullifiability of set, which need not be sorted or
// deduplicated by the caller - size 0/1/2 fast paths and the size>=3
// "any element zero or any two equal" fast path both tolerate that. All
// intermediate arithmetic uses 64-bit accumulators throughout to avoid
// overflow on large products at large M.
func Test(set []int64) (Result, error) {
	return testDepth(set, 0)
}

func testDepth(set []int64, depth int) (Result, error) {
	if depth > maxDepth {
		return Innullifiable, fmt.Errorf("nulltest: recursion depth exceeded %d", maxDepth)
	}

	switch len(set) {
	case 0:
		return Innullifiable, nil
	case 1:
		if set[0] == 0 {
			return Nullifiable, nil
		}

		return Innullifiable, nil
	case 2:
		if set[0] == set[1] {
			return Nullifiable, nil
		}

		return Innullifiable, nil
	}

	for _, v := range set {
		if v == 0 {
			return Nullifiable, nil
		}
	}

	for i := 0; i < len(set); i++ {
		for j := i + 1; j < len(set); j++ {
			if set[i] == set[j] {
				return Nullifiable, nil
			}
		}
	}

	if len(set) == 3 {
		return testTriple(set), nil
	}

	return testGeneral(set, depth)
}

// testTriple applies the six closed-form checks for a fast-pathed,
// duplicate-free, zero-free triple. Quotients and differences rearrange
// into one of these six sums/products, so they need no separate check.
func testTriple(set []int64) Result {
	a, b, c := set[0], set[1], set[2]

	switch {
	case a+b == c, b+c == a, c+a == b:
		return Nullifiable
	case a*b == c, b*c == a, c*a == b:
		return Nullifiable
	default:
		return Innullifiable
	}
}

// testGeneral handles |s| >= 4 after the zero/duplicate fast path: for
// every unordered pair, form every valid replacement (sum, product,
// difference, and exact quotient) and recurse on the reduced set. Any
// nullifiable branch makes the whole set nullifiable.
//
// No memoization: distinct intermediate values rarely recur at runtime,
// so a set-as-multiset cache key wouldn't pay for itself.
func testGeneral(set []int64, depth int) (Result, error) {
	n := len(set)
	reduced := make([]int64, n-1)

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a, b := set[i], set[j]

			for _, replacement := range replacements(a, b) {
				buildReduced(set, i, j, replacement, reduced)

				result, err := testDepth(reduced, depth+1)
				if err != nil {
					return Innullifiable, err
				}

				if result == Nullifiable {
					return Nullifiable, nil
				}
			}
		}
	}

	return Innullifiable, nil
}

// replacements returns every positive replacement value obtainable from
// the pair (a, b): sum and product always, |a-b| (guaranteed nonzero by
// the caller's duplicate pre-check), and the exact quotient when one
// evenly divides the other.
func replacements(a, b int64) []int64 {
	hi, lo := a, b
	if lo > hi {
		hi, lo = lo, hi
	}

	out := []int64{a + b, a * b, hi - lo}

	if lo != 0 && hi%lo == 0 {
		out = append(out, hi/lo)
	}

	return out
}

// buildReduced copies set into out with positions i and j removed and
// replacement appended (out has length len(set)-1).
func buildReduced(set []int64, i, j int, replacement int64, out []int64) {
	k := 0

	for idx, v := range set {
		if idx == i || idx == j {
			continue
		}

		out[k] = v
		k++
	}

	out[k] = replacement
}
