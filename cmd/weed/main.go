// Command weed runs the exhaustive nullifiability test against every
// cell in a set record not yet marked nullifiable, marking whichever ones
// the test proves nullifiable.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/jrnull/nullset/internal/cliutil"
	"github.com/jrnull/nullset/internal/nulltest"
	"github.com/jrnull/nullset/internal/progress"
	"github.com/jrnull/nullset/pkg/setrecord"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type weedOpts struct {
	verbose      bool
	exportOnProg bool
	sigintProg   bool
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("weed", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts weedOpts

	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "print stage statistics")
	fs.BoolVarP(&opts.exportOnProg, "export", "x", false, "re-export record on every progress report")
	fs.BoolVarP(&opts.sigintProg, "sigint", "i", false, "report progress on SIGINT instead of SIGUSR1")

	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: weed <recSize> <rec.dat> [minm maxm threads [prog.out]]")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return cliutil.ExitInvalidArgs
	}

	n := fs.NArg()
	if n != 2 && n != 5 && n != 6 {
		fmt.Fprintf(stderr, "error: expected 2, 5 or 6 positional arguments, got %d\n", n)
		fs.Usage()

		return cliutil.ExitInvalidArgs
	}

	recSize, err := strconv.Atoi(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "error: recSize: %v\n", err)
		return cliutil.ExitInvalidArgs
	}

	recPath := fs.Arg(1)

	var minM, maxM int64 = -1, -1

	threads := 1

	progPath := ""

	if n >= 5 {
		minM, err = strconv.ParseInt(fs.Arg(2), 10, 64)
		if err != nil {
			fmt.Fprintf(stderr, "error: minm: %v\n", err)
			return cliutil.ExitInvalidArgs
		}

		maxM, err = strconv.ParseInt(fs.Arg(3), 10, 64)
		if err != nil {
			fmt.Fprintf(stderr, "error: maxm: %v\n", err)
			return cliutil.ExitInvalidArgs
		}

		threads, err = strconv.Atoi(fs.Arg(4))
		if err != nil {
			fmt.Fprintf(stderr, "error: threads: %v\n", err)
			return cliutil.ExitInvalidArgs
		}
	}

	if n == 6 {
		progPath = fs.Arg(5)
	}

	return weedRun(stdout, stderr, opts, recSize, recPath, minM, maxM, threads, progPath)
}

func weedRun(stdout, stderr io.Writer, opts weedOpts, recSize int, recPath string, minM, maxM int64, threads int, progPath string) int {
	rec, err := setrecord.Import(recPath, recSize)
	if err != nil {
		fmt.Fprintf(stderr, "error: import %s: %v\n", recPath, err)
		return cliutil.ExitRuntimeErr
	}
	defer rec.Release()

	if minM < 0 {
		minM = rec.MinM()
	}

	if maxM < 0 {
		maxM = rec.MaxM()
	}

	ctx := context.Background()

	var watchCancel context.CancelFunc

	var watchDone chan error

	if progPath != "" {
		pipe, err := progress.OpenReportPipe(progPath)
		if err != nil {
			fmt.Fprintf(stderr, "error: open progress pipe: %v\n", err)
			return cliutil.ExitRuntimeErr
		}
		defer pipe.Close()

		reporter := progress.NewReporter(threads, rec.Total(), pipe, nil)

		sig := progress.DefaultSignal
		if opts.sigintProg {
			sig = syscall.SIGINT
		}

		var watchCtx context.Context

		watchCtx, watchCancel = context.WithCancel(ctx)
		watchDone = make(chan error, 1)

		go func() {
			watchDone <- cliutil.WatchAndExport(watchCtx, reporter, sig, rec, recPath, opts.exportOnProg)
		}()
	}

	var wg sync.WaitGroup

	var verified, newlyNullifiable atomic.Int64

	var firstErr atomic.Pointer[error]

	for mod := 0; mod < threads; mod++ {
		mod := mod

		wg.Go(func() {
			_, err := rec.QueryParallel(setrecord.Nullifiable, 0, threads, mod, nil, func(set []int64, _ int, _ byte) error {
				m := set[len(set)-1]
				if m < minM || m > maxM {
					return nil
				}

				verified.Add(1)

				res, err := nulltest.Test(set)
				if err != nil {
					return fmt.Errorf("nulltest %v: %w", set, err)
				}

				if res == nulltest.Nullifiable {
					newlyNullifiable.Add(1)

					if _, err := rec.Mark(set, setrecord.Nullifiable); err != nil {
						return fmt.Errorf("mark %v: %w", set, err)
					}
				}

				return nil
			})
			if err != nil {
				firstErr.CompareAndSwap(nil, &err)
			}
		})
	}

	wg.Wait()

	if watchCancel != nil {
		watchCancel()
		<-watchDone
	}

	if p := firstErr.Load(); p != nil {
		fmt.Fprintf(stderr, "error: weed stage: %v\n", *p)
		return cliutil.ExitRuntimeErr
	}

	if err := rec.Export(recPath); err != nil {
		fmt.Fprintf(stderr, "error: export %s: %v\n", recPath, err)
		return cliutil.ExitRuntimeErr
	}

	if opts.verbose {
		fmt.Fprintf(stdout, "weed: verified %d, found %d newly nullifiable\n", verified.Load(), newlyNullifiable.Load())
	}

	return cliutil.ExitOK
}
