package pipeline

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadManifestParsesHuJSONWithComments(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "sweep.hujson")

	body := `{
  // target size and range
  "n": 4,
  "m": 9,
  "threads": 4,
  "thorough": false,
}
`

	if err := writeFile(t, path, body); err != nil {
		t.Fatalf("writeFile: %v", err)
	}

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}

	if m.N != 4 || m.M != 9 || m.Threads != 4 {
		t.Errorf("LoadManifest = %+v, want N=4 M=9 Threads=4", m)
	}
}

func TestLoadManifestRejectsSmallN(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "sweep.hujson")

	if err := writeFile(t, path, `{"n": 2, "m": 9}`); err != nil {
		t.Fatalf("writeFile: %v", err)
	}

	if _, err := LoadManifest(path); err == nil {
		t.Error("LoadManifest: want error for n < 3, got nil")
	}
}

func TestLoadManifestDefaultsThreadsToOne(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "sweep.hujson")

	if err := writeFile(t, path, `{"n": 3, "m": 6}`); err != nil {
		t.Fatalf("writeFile: %v", err)
	}

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}

	if m.Threads != 1 {
		t.Errorf("Threads = %d, want 1", m.Threads)
	}
}

func writeFile(t *testing.T, path, body string) error {
	t.Helper()

	return os.WriteFile(path, []byte(body), 0o600)
}
