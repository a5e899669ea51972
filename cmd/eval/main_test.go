package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jrnull/nullset/pkg/setrecord"
)

func makeRecord(t *testing.T, path string) {
	t.Helper()

	rec := setrecord.New(3)
	if err := rec.Allocate(3, 1, 4, nil); err != nil {
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

func TestEvalPrintsCountByDefault(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "rec.dat")
	makeRecord(t, path)

	var stdout, stderr bytes.Buffer

	exit := run([]string{"3", path}, &stdout, &stderr)
	if exit != 0 {
		t.Fatalf("run exit = %d, stderr = %s", exit, stderr.String())
	}

	got := strings.TrimSpace(stdout.String())

	// M=4, size=3: C(4,3)=4 total sets, one marked -> 3 unmarked.
	if got != "3" {
		t.Errorf("stdout = %q, want \"3\"", got)
	}
}

func TestEvalListsSetsWithFlag(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "rec.dat")
	makeRecord(t, path)

	var stdout, stderr bytes.Buffer

	exit := run([]string{"-s", "3", path}, &stdout, &stderr)
	if exit != 0 {
		t.Fatalf("run exit = %d, stderr = %s", exit, stderr.String())
	}

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), stdout.String())
	}

	if lines[0] != "1 2 4" {
		t.Errorf("first line = %q, want \"1 2 4\" (combinadic order)", lines[0])
	}
}

func TestEvalRejectsBadRecSize(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer

	exit := run([]string{"x", "rec.dat"}, &stdout, &stderr)
	if exit != 2 {
		t.Errorf("exit = %d, want 2", exit)
	}
}
