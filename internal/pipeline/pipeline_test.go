package pipeline

import (
	"context"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// wantInnullifiableN4M9 is the known innullifiable corpus for N=4, M=9.
var wantInnullifiableN4M9 = [][]int64{
	{1, 4, 6, 8},
	{1, 4, 6, 9},
	{1, 5, 7, 9},
	{3, 6, 7, 8},
	{3, 7, 8, 9},
	{4, 5, 6, 8},
	{4, 6, 7, 8},
	{4, 6, 8, 9},
	{5, 6, 7, 9},
	{5, 7, 8, 9},
}

func TestRunMatchesKnownCorpusAtN4M9(t *testing.T) {
	t.Parallel()

	d := &Driver{}

	result, err := d.Run(context.Background(), Config{N: 4, M: 9, Threads: 3})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	sort.Slice(result.Innullifiable, func(i, j int) bool { return less(result.Innullifiable[i], result.Innullifiable[j]) })

	if diff := cmp.Diff(wantInnullifiableN4M9, result.Innullifiable); diff != "" {
		t.Errorf("innullifiable sets mismatch (-want +got):\n%s", diff)
	}
}

func TestRunIsInsensitiveToThreadCount(t *testing.T) {
	t.Parallel()

	d := &Driver{}

	one, err := d.Run(context.Background(), Config{N: 4, M: 9, Threads: 1})
	if err != nil {
		t.Fatalf("Run(threads=1): %v", err)
	}

	four, err := d.Run(context.Background(), Config{N: 4, M: 9, Threads: 4})
	if err != nil {
		t.Fatalf("Run(threads=4): %v", err)
	}

	sort.Slice(one.Innullifiable, func(i, j int) bool { return less(one.Innullifiable[i], one.Innullifiable[j]) })
	sort.Slice(four.Innullifiable, func(i, j int) bool { return less(four.Innullifiable[i], four.Innullifiable[j]) })

	if diff := cmp.Diff(one.Innullifiable, four.Innullifiable); diff != "" {
		t.Errorf("thread count should not affect the result (-threads=1 +threads=4):\n%s", diff)
	}
}

func TestRunThoroughSupersetOfDefault(t *testing.T) {
	t.Parallel()

	d := &Driver{}

	plain, err := d.Run(context.Background(), Config{N: 4, M: 9, Threads: 2})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	thorough, err := d.Run(context.Background(), Config{N: 4, M: 9, Threads: 2, Thorough: true})
	if err != nil {
		t.Fatalf("Run(thorough): %v", err)
	}

	// Thorough mode expands a superset of what the default mode expands
	// (it covers every ONLY_SUPERSET cell too), so every set the default
	// mode marks is marked in thorough mode as well - the final residue
	// can only be <= in size.
	if len(thorough.Innullifiable) > len(plain.Innullifiable) {
		t.Errorf("thorough residue (%d) should be <= default residue (%d)", len(thorough.Innullifiable), len(plain.Innullifiable))
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	d := &Driver{}

	cases := []Config{
		{N: 2, M: 9, Threads: 1},
		{N: 4, M: 2, Threads: 1},
		{N: 4, M: 9, Threads: 0},
	}

	for _, cfg := range cases {
		if _, err := d.Run(context.Background(), cfg); err == nil {
			t.Errorf("Run(%+v): want error, got nil", cfg)
		}
	}
}

func TestRunTagsRunID(t *testing.T) {
	t.Parallel()

	d := &Driver{}

	result, err := d.Run(context.Background(), Config{N: 3, M: 6, Threads: 2, TagRunID: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.RunID == "" {
		t.Error("RunID should be set when TagRunID is true")
	}
}

func less(a, b []int64) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}

	return len(a) < len(b)
}
