package pipeline

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tailscale/hujson"
)

// Manifest describes one repeatable sweep as a HuJSON document - a
// convenience on top of the four cmd/* binaries and an external shell
// driver script, not a replacement for either (no process orchestration
// happens here; LoadManifest only parses).
type Manifest struct {
	N        int    `json:"n"`
	M        int64  `json:"m"`
	Threads  int    `json:"threads"`
	Thorough bool   `json:"thorough,omitempty"`
	RecDir   string `json:"rec_dir,omitempty"` // directory holding per-size rec.dat files
}

// ToConfig converts the manifest into a Driver [Config]. ProgressOut/
// ProgressSignal are left at their zero values; callers that want
// progress reporting set those after conversion.
func (m Manifest) ToConfig() Config {
	return Config{
		N:        m.N,
		M:        m.M,
		Threads:  m.Threads,
		Thorough: m.Thorough,
	}
}

// LoadManifest reads and parses a HuJSON sweep manifest from path,
// tolerating comments and trailing commas.
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("pipeline: read manifest %s: %w", path, err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Manifest{}, fmt.Errorf("pipeline: manifest %s is not valid JSONC: %w", path, err)
	}

	var m Manifest

	if err := json.Unmarshal(standardized, &m); err != nil {
		return Manifest{}, fmt.Errorf("pipeline: manifest %s: %w", path, err)
	}

	if m.N < 3 {
		return Manifest{}, fmt.Errorf("%w: manifest n=%d must be >= 3", ErrInvalidArgs, m.N)
	}

	if m.Threads < 1 {
		m.Threads = 1
	}

	return m, nil
}
