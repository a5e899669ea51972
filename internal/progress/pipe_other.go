//go:build !unix

package progress

import (
	"fmt"
	"os"
)

// OpenReportPipe opens path O_WRONLY|O_TRUNC. On non-unix platforms there
// is no FIFO special file to create; path is expected to already exist as
// an ordinary file or platform-specific pipe.
func OpenReportPipe(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return nil, fmt.Errorf("progress: open pipe %s: %w", path, err)
	}

	return f, nil
}
