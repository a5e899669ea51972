package expand

import "math"

// Category bits record which arithmetic relation(s) produced a pair, so
// [Expand] can honor the MutAdd/MutMul flag split. A pair that happens to
// satisfy both an additive and a multiplicative relation for the same v
// carries both bits rather than being recorded twice.
const (
	CatAdd uint8 = 1 << 0 // produced by a+b=v or b-a=v
	CatMul uint8 = 1 << 1 // produced by a*b=v or b/a=v
)

// Pair is an unordered equivalent pair (a, b) with a < b.
type Pair struct {
	A, B       int64
	Categories uint8
}

// Table is the precomputed equivalent-pair table: for each value v in
// [1, M], the unordered pairs (a, b) with 1 <= a < b <= M, a != v, b != v,
// such that one of a+b=v, b-a=v, a*b=v, or b/a=v (exact) holds.
//
// Bounded by 3M/2 - 5 total pairs for M > 5; built once per run and
// shared read-only across all [Expand] calls.
type Table struct {
	m     int64
	pairs [][]Pair // pairs[v] for v in [1, m], index 0 unused
}

// BuildTable precomputes the equivalent-pair table for M = m.
func BuildTable(m int64) *Table {
	t := &Table{m: m, pairs: make([][]Pair, m+1)}

	for v := int64(1); v <= m; v++ {
		t.pairs[v] = buildPairsFor(v, m)
	}

	return t
}

// M returns the M bound this table was built for.
func (t *Table) M() int64 { return t.m }

// Pairs returns the equivalent pairs for value v. The returned slice is
// shared and must not be mutated by the caller.
func (t *Table) Pairs(v int64) []Pair {
	if v < 1 || v > t.m {
		return nil
	}

	return t.pairs[v]
}

func buildPairsFor(v, m int64) []Pair {
	index := make(map[[2]int64]int) // key -> position in out
	out := make([]Pair, 0, 8)

	add := func(a, b int64, cat uint8) {
		if a == v || b == v || a == b {
			return
		}

		if a < 1 || b < 1 || a > m || b > m {
			return
		}

		if a > b {
			a, b = b, a
		}

		key := [2]int64{a, b}
		if i, ok := index[key]; ok {
			out[i].Categories |= cat
			return
		}

		index[key] = len(out)
		out = append(out, Pair{A: a, B: b, Categories: cat})
	}

	// a + b = v
	for a := int64(1); a <= v/2; a++ {
		add(a, v-a, CatAdd)
	}

	// b - a = v  (b = v + a)
	for a := int64(1); a <= m-v; a++ {
		add(a, v+a, CatAdd)
	}

	// a * b = v, a <= sqrt(v)
	sqrtV := int64(math.Sqrt(float64(v)))
	for d := int64(2); d <= sqrtV; d++ {
		if v%d == 0 {
			add(d, v/d, CatMul)
		}
	}

	// b / a = v  (b = v * a)
	for d := int64(2); d <= m/v; d++ {
		add(d, v*d, CatMul)
	}

	return out
}
