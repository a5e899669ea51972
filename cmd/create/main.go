// Command create allocates a blank set record and writes it to disk in
// the binary SR format.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	flag "github.com/spf13/pflag"

	"github.com/jrnull/nullset/internal/cliutil"
	"github.com/jrnull/nullset/pkg/setrecord"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: create <size> <minm> <maxm> <fixedSize> <fixedVals> <rec.dat>")
		fmt.Fprintln(fs.Output(), `fixedVals is a comma-separated list, or "" when fixedSize is 0.`)
	}

	if err := fs.Parse(args); err != nil {
		return cliutil.ExitInvalidArgs
	}

	if fs.NArg() != 6 {
		fmt.Fprintf(stderr, "error: expected 6 positional arguments, got %d\n", fs.NArg())
		fs.Usage()

		return cliutil.ExitInvalidArgs
	}

	size, minM, maxM, fixedSize, err := parsePositional(fs)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return cliutil.ExitInvalidArgs
	}

	fixedVals, err := cliutil.ParseFixedVals(fs.Arg(4), fixedSize)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return cliutil.ExitInvalidArgs
	}

	path := fs.Arg(5)

	rec := setrecord.New(size)
	if err := rec.Allocate(size-fixedSize, minM, maxM, fixedVals); err != nil {
		fmt.Fprintf(stderr, "error: allocate: %v\n", err)

		if errors.Is(err, setrecord.ErrInvalidArgs) {
			return cliutil.ExitInvalidArgs
		}

		return cliutil.ExitRuntimeErr
	}
	defer rec.Release()

	if err := rec.Export(path); err != nil {
		fmt.Fprintf(stderr, "error: export %s: %v\n", path, err)
		return cliutil.ExitRuntimeErr
	}

	fmt.Fprintf(stdout, "created %s: size=%d minm=%d maxm=%d fixedSize=%d total=%d\n",
		path, size, minM, maxM, fixedSize, rec.Total())

	return cliutil.ExitOK
}

func parsePositional(fs *flag.FlagSet) (size int, minM, maxM int64, fixedSize int, err error) {
	size, err = strconv.Atoi(fs.Arg(0))
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("size: %w", err)
	}

	minM, err = strconv.ParseInt(fs.Arg(1), 10, 64)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("minm: %w", err)
	}

	maxM, err = strconv.ParseInt(fs.Arg(2), 10, 64)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("maxm: %w", err)
	}

	fixedSize, err = strconv.Atoi(fs.Arg(3))
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("fixedSize: %w", err)
	}

	return size, minM, maxM, fixedSize, nil
}
