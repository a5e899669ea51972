package setrecord

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/natefinch/atomic"
)

// On-disk SR file layout:
//
//	0x000 .. 0x7FF  reserved (2048 bytes, free for a user header)
//	0x800           three newline-terminated text lines + a banner line
//	0x1000          total raw cell bytes, in combinadic order
const (
	headerTextOffset = 0x800
	dataOffset       = 0x1000

	bannerLine = "Data begins 4K (4096) into the file\n"
)

// Export writes the Record to path in the binary SR format, via a
// temp-file-then-rename so a reader never observes a partially written
// file.
func (r *Record) Export(path string) error {
	buf := bytes.NewBuffer(make([]byte, 0, dataOffset+len(r.cells)))

	buf.Write(make([]byte, headerTextOffset)) // reserved region, zero-filled

	writeHeaderText(buf, r)

	if pad := dataOffset - buf.Len(); pad > 0 {
		buf.Write(make([]byte, pad))
	}

	buf.Write(r.cells[:r.total])

	if err := atomic.WriteFile(path, bytes.NewReader(buf.Bytes())); err != nil {
		return fmt.Errorf("%w: export %s: %w", ErrIO, path, err)
	}

	return nil
}

func writeHeaderText(buf *bytes.Buffer, r *Record) {
	fmt.Fprintf(buf, "Full Set -- Size: %d\n", r.size)
	fmt.Fprintf(buf, "Variable Segment -- Size: %d, M-Value Range: %d to %d\n", r.varSize, r.minM, r.maxM)

	var fv [maxFixedValues]int64
	copy(fv[:], r.fixedValues[:r.fixedSize])

	fmt.Fprintf(buf, "Fixed Segment -- Size: %d, Values: %d, %d, %d, %d\n",
		r.fixedSize, fv[0], fv[1], fv[2], fv[3])
	buf.WriteString(bannerLine)
}

// Import reads an SR file of the given set size from path. size must match
// the "Full Set -- Size" line recorded in the file, or ErrWrongSize is
// returned. Malformed headers return ErrInvalidFile.
func Import(path string, size int) (*Record, error) {
	f, err := os.Open(path) //nolint:gosec // path is caller-provided by design (CLI arg)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrIO, path, err)
	}
	defer f.Close()

	if _, err := f.Seek(headerTextOffset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: seek %s: %w", ErrIO, path, err)
	}

	reader := bufio.NewReader(io.LimitReader(f, dataOffset-headerTextOffset))

	fullSize, varSize, minM, maxM, fixedSize, fixed, err := parseHeaderText(reader)
	if err != nil {
		return nil, err
	}

	if fullSize != size {
		return nil, fmt.Errorf("%w: file declares size %d, caller expects %d", ErrWrongSize, fullSize, size)
	}

	r := New(size)
	if err := r.Allocate(varSize, minM, maxM, fixed[:fixedSize]); err != nil {
		return nil, fmt.Errorf("%w: reallocating from header: %w", ErrInvalidFile, err)
	}

	if _, err := f.Seek(dataOffset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: seek data region of %s: %w", ErrIO, path, err)
	}

	n, err := io.ReadFull(f, r.cells[:r.total])
	if err != nil {
		return nil, fmt.Errorf("%w: %s declares %d cells, read %d: %w", ErrWrongSize, path, r.total, n, err)
	}

	return r, nil
}

func parseHeaderText(reader *bufio.Reader) (fullSize, varSize int, minM, maxM int64, fixedSize int, fixed [maxFixedValues]int64, err error) {
	line1, err := readLine(reader)
	if err != nil {
		return 0, 0, 0, 0, 0, fixed, err
	}

	if _, scanErr := fmt.Sscanf(line1, "Full Set -- Size: %d", &fullSize); scanErr != nil {
		return 0, 0, 0, 0, 0, fixed, fmt.Errorf("%w: malformed full-set line %q", ErrInvalidFile, line1)
	}

	line2, err := readLine(reader)
	if err != nil {
		return 0, 0, 0, 0, 0, fixed, err
	}

	if _, scanErr := fmt.Sscanf(line2, "Variable Segment -- Size: %d, M-Value Range: %d to %d", &varSize, &minM, &maxM); scanErr != nil {
		return 0, 0, 0, 0, 0, fixed, fmt.Errorf("%w: malformed variable-segment line %q", ErrInvalidFile, line2)
	}

	line3, err := readLine(reader)
	if err != nil {
		return 0, 0, 0, 0, 0, fixed, err
	}

	var f0, f1, f2, f3 int64

	if _, scanErr := fmt.Sscanf(line3, "Fixed Segment -- Size: %d, Values: %d, %d, %d, %d",
		&fixedSize, &f0, &f1, &f2, &f3); scanErr != nil {
		return 0, 0, 0, 0, 0, fixed, fmt.Errorf("%w: malformed fixed-segment line %q", ErrInvalidFile, line3)
	}

	fixed = [maxFixedValues]int64{f0, f1, f2, f3}

	line4, err := readLine(reader)
	if err != nil {
		return 0, 0, 0, 0, 0, fixed, err
	}

	if strings.TrimRight(line4, "\n") != strings.TrimRight(bannerLine, "\n") {
		return 0, 0, 0, 0, 0, fixed, fmt.Errorf("%w: missing data-offset banner line", ErrInvalidFile)
	}

	return fullSize, varSize, minM, maxM, fixedSize, fixed, nil
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("%w: truncated header: %w", ErrInvalidFile, err)
	}

	return line, nil
}
