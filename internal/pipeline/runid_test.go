package pipeline

import "testing"

func TestNewRunIDIsUnique(t *testing.T) {
	t.Parallel()

	a := NewRunID()
	b := NewRunID()

	if a == "" || b == "" {
		t.Fatal("NewRunID returned empty string")
	}

	if a == b {
		t.Error("two calls to NewRunID produced the same id")
	}
}

func TestExportSnapshotName(t *testing.T) {
	t.Parallel()

	got := ExportSnapshotName("/tmp/rec.dat", "abc-123")
	want := "/tmp/rec.dat.snapshot.abc-123"

	if got != want {
		t.Errorf("ExportSnapshotName = %q, want %q", got, want)
	}

	if got := ExportSnapshotName("/tmp/rec.dat", ""); got != "/tmp/rec.dat.snapshot" {
		t.Errorf("ExportSnapshotName with empty runID = %q", got)
	}
}
