// Command eval prints the sets a sweep left unmarked - the final
// innullifiable residue.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/jrnull/nullset/internal/cliutil"
	"github.com/jrnull/nullset/pkg/setrecord"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("eval", flag.ContinueOnError)
	fs.SetOutput(stderr)

	listSets := fs.BoolP("sets", "s", false, "list each unmarked set, one per line, in combinadic order")

	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: eval <recSize> <rec.dat>")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return cliutil.ExitInvalidArgs
	}

	if fs.NArg() != 2 {
		fmt.Fprintf(stderr, "error: expected 2 positional arguments, got %d\n", fs.NArg())
		fs.Usage()

		return cliutil.ExitInvalidArgs
	}

	recSize, err := strconv.Atoi(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "error: recSize: %v\n", err)
		return cliutil.ExitInvalidArgs
	}

	recPath := fs.Arg(1)

	rec, err := setrecord.Import(recPath, recSize)
	if err != nil {
		fmt.Fprintf(stderr, "error: import %s: %v\n", recPath, err)
		return cliutil.ExitRuntimeErr
	}
	defer rec.Release()

	count := 0

	_, err = rec.Query(setrecord.Marked, 0, nil, func(set []int64, _ int, _ byte) error {
		count++

		if *listSets {
			fmt.Fprintln(stdout, formatSet(set))
		}

		return nil
	})
	if err != nil {
		fmt.Fprintf(stderr, "error: eval: %v\n", err)
		return cliutil.ExitRuntimeErr
	}

	if !*listSets {
		fmt.Fprintln(stdout, count)
	}

	return cliutil.ExitOK
}

func formatSet(set []int64) string {
	parts := make([]string, len(set))
	for i, v := range set {
		parts[i] = strconv.FormatInt(v, 10)
	}

	return strings.Join(parts, " ")
}
