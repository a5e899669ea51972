package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/jrnull/nullset/pkg/setrecord"
)

func makeSrc(t *testing.T, path string) {
	t.Helper()

	rec := setrecord.New(3)
	if err := rec.Allocate(3, 1, 6, nil); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	defer rec.Release()

	if _, err := rec.Mark([]int64{1, 2, 3}, setrecord.Nullifiable); err != nil {
		t.Fatalf("Mark: %v", err)
	}

	if err := rec.Export(path); err != nil {
		t.Fatalf("Export: %v", err)
	}
}

func TestGenSupersetExpansionMarksDest(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	srcPath := filepath.Join(dir, "src.dat")
	destPath := filepath.Join(dir, "dest.dat")

	makeSrc(t, srcPath)

	var stdout, stderr bytes.Buffer

	exit := run([]string{"-c", "3", srcPath, destPath}, &stdout, &stderr)
	if exit != 0 {
		t.Fatalf("run exit = %d, stderr = %s", exit, stderr.String())
	}

	dest, err := setrecord.Import(destPath, 4)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	defer dest.Release()

	b, ok, err := dest.At([]int64{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("At: %v", err)
	}

	if !ok {
		t.Fatal("At: {1,2,3,4} out of range")
	}

	if b&setrecord.Nullifiable == 0 {
		t.Errorf("{1,2,3,4} cell = %#x, want NULLIFIABLE set", b)
	}

	if b&setrecord.OnlySuperset == 0 {
		t.Errorf("{1,2,3,4} cell = %#x, want ONLY_SUPERSET set (pure superset of {1,2,3})", b)
	}
}

func TestGenRejectsBadSrcSize(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer

	exit := run([]string{"-c", "notanumber", "src.dat", "dest.dat"}, &stdout, &stderr)
	if exit != 2 {
		t.Errorf("exit = %d, want 2", exit)
	}
}

func TestGenSupersetsOnlyFlagExcludesMutations(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	srcPath := filepath.Join(dir, "src.dat")
	destPath := filepath.Join(dir, "dest.dat")

	makeSrc(t, srcPath)

	var stdout, stderr bytes.Buffer

	exit := run([]string{"-c", "-s", "3", srcPath, destPath}, &stdout, &stderr)
	if exit != 0 {
		t.Fatalf("run exit = %d, stderr = %s", exit, stderr.String())
	}

	dest, err := setrecord.Import(destPath, 4)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	defer dest.Release()

	total, err := dest.Query(setrecord.Marked, 0, nil, func([]int64, int, byte) error { return nil })
	if err != nil {
		t.Fatalf("Query: %v", err)
	}

	// With -s only, every marked cell must be a superset of {1,2,3}: there
	// are exactly 3 such sets over M=6 ({1,2,3,4},{1,2,3,5},{1,2,3,6}).
	if total != 3 {
		t.Errorf("marked cells = %d, want 3", total)
	}
}
