package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/jrnull/nullset/pkg/setrecord"
)

func TestWeedMarksNullifiableResidue(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "rec.dat")

	rec := setrecord.New(3)
	if err := rec.Allocate(3, 1, 6, nil); err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	// {1,2,3}: 1+2=3, nullifiable via 3-3=0. Leave unmarked; weed must
	// discover it. {1,4,6}: innullifiable (no sum/product/difference/
	// quotient of any pair yields the third), should remain unmarked.
	if err := rec.Export(path); err != nil {
		t.Fatalf("Export: %v", err)
	}

	rec.Release()

	var stdout, stderr bytes.Buffer

	exit := run([]string{"-v", "3", path}, &stdout, &stderr)
	if exit != 0 {
		t.Fatalf("run exit = %d, stderr = %s", exit, stderr.String())
	}

	got, err := setrecord.Import(path, 3)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	defer got.Release()

	b, ok, err := got.At([]int64{1, 2, 3})
	if err != nil {
		t.Fatalf("At: %v", err)
	}

	if !ok || b&setrecord.Nullifiable == 0 {
		t.Errorf("{1,2,3} cell = %#x (ok=%v), want NULLIFIABLE set", b, ok)
	}

	b2, ok2, err := got.At([]int64{1, 4, 6})
	if err != nil {
		t.Fatalf("At: %v", err)
	}

	if !ok2 || b2&setrecord.Nullifiable != 0 {
		t.Errorf("{1,4,6} cell = %#x (ok=%v), want NULLIFIABLE clear", b2, ok2)
	}
}

func TestWeedRejectsWrongArgCount(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer

	exit := run([]string{"3", "rec.dat", "1"}, &stdout, &stderr)
	if exit != 2 {
		t.Errorf("exit = %d, want 2", exit)
	}
}
