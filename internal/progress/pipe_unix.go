//go:build unix

package progress

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// OpenReportPipe creates path as a named pipe if it does not already
// exist and opens it O_WRONLY|O_TRUNC, so a progress handler can write its
// 24-byte record straight to the pipe. O_WRONLY on a FIFO blocks until a
// reader (e.g. `od`, or a shell driver script) opens the other end.
func OpenReportPipe(path string) (*os.File, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if mkErr := unix.Mkfifo(path, 0o600); mkErr != nil {
			return nil, fmt.Errorf("progress: mkfifo %s: %w", path, mkErr)
		}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return nil, fmt.Errorf("progress: open pipe %s: %w", path, err)
	}

	return f, nil
}
