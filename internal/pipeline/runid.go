package pipeline

import (
	"fmt"

	"github.com/google/uuid"
)

// NewRunID returns a fresh random run identifier. Driver.Run calls this
// when Config.TagRunID is set and returns it in Result.RunID.
func NewRunID() string {
	return uuid.NewString()
}

// ExportSnapshotName derives the companion export filename for an
// atomic, on-progress SR snapshot, tagging it with runID so snapshots
// from concurrent or successive sweeps against the same rec.dat path
// never collide.
func ExportSnapshotName(recPath, runID string) string {
	if runID == "" {
		return recPath + ".snapshot"
	}

	return fmt.Sprintf("%s.snapshot.%s", recPath, runID)
}
