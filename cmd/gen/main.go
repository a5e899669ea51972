// Command gen performs one expansion stage: every nullifiable entry in a
// size-n set record is expanded into a size-(n+1) record.
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
	"github.com/jrnull/nullset/internal/expand"
	"github.com/jrnull/nullset/internal/progress"
	"github.com/jrnull/nullset/pkg/setrecord"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type genOpts struct {
	create        bool
	verbose       bool
	supersOnly    bool
	mutationsOnly bool
	thorough      bool
	exportOnProg  bool
	withUnmarked  bool
	sigintProg    bool
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("gen", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts genOpts

	fs.BoolVarP(&opts.create, "create", "c", false, "create dest record before expanding into it")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "print stage statistics")
	fs.BoolVarP(&opts.supersOnly, "supersets", "s", false, "superset expansion only")
	fs.BoolVarP(&opts.mutationsOnly, "mutations", "m", false, "arithmetic mutation expansion only")
	fs.BoolVarP(&opts.thorough, "thorough", "t", false, "also expand ONLY_SUPERSET-marked entries")
	fs.BoolVarP(&opts.exportOnProg, "export", "x", false, "re-export dest on every progress report")
	fs.BoolVarP(&opts.withUnmarked, "unmarked", "u", false, "include current unmarked count in progress aux field")
	fs.BoolVarP(&opts.sigintProg, "sigint", "i", false, "report progress on SIGINT instead of SIGUSR1")

	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: gen <srcSize> <src.dat> <dest.dat> [threads [prog.out]]")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return cliutil.ExitInvalidArgs
	}

	if fs.NArg() < 3 || fs.NArg() > 5 {
		fmt.Fprintf(stderr, "error: expected 3-5 positional arguments, got %d\n", fs.NArg())
		fs.Usage()

		return cliutil.ExitInvalidArgs
	}

	srcSize, err := strconv.Atoi(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "error: srcSize: %v\n", err)
		return cliutil.ExitInvalidArgs
	}

	srcPath := fs.Arg(1)
	destPath := fs.Arg(2)

	threads := 1
	if fs.NArg() >= 4 {
		threads, err = strconv.Atoi(fs.Arg(3))
		if err != nil {
			fmt.Fprintf(stderr, "error: threads: %v\n", err)
			return cliutil.ExitInvalidArgs
		}
	}

	progPath := ""
	if fs.NArg() == 5 {
		progPath = fs.Arg(4)
	}

	return genRun(stdout, stderr, opts, srcSize, srcPath, destPath, threads, progPath)
}

func genRun(stdout, stderr io.Writer, opts genOpts, srcSize int, srcPath, destPath string, threads int, progPath string) int {
	src, err := setrecord.Import(srcPath, srcSize)
	if err != nil {
		fmt.Fprintf(stderr, "error: import %s: %v\n", srcPath, err)
		return cliutil.ExitRuntimeErr
	}
	defer src.Release()

	dest := setrecord.New(srcSize + 1)

	if opts.create {
		if err := dest.Allocate(srcSize+1, 1, src.MaxM(), nil); err != nil {
			fmt.Fprintf(stderr, "error: allocate dest: %v\n", err)
			return cliutil.ExitRuntimeErr
		}
	} else {
		dest, err = setrecord.Import(destPath, srcSize+1)
		if err != nil {
			fmt.Fprintf(stderr, "error: import %s: %v\n", destPath, err)
			return cliutil.ExitRuntimeErr
		}
	}
	defer dest.Release()

	table := expand.BuildTable(src.MaxM())

	flags := expansionFlags(opts)

	mask, bits := byte(setrecord.Marked), byte(setrecord.Nullifiable)
	if opts.thorough {
		mask, bits = setrecord.Nullifiable, setrecord.Nullifiable
	}

	var aux func() uint64
	if opts.withUnmarked {
		aux = func() uint64 {
			n, _ := dest.Query(setrecord.Marked, 0, nil, func([]int64, int, byte) error { return nil })
			return uint64(n)
		}
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

		reporter := progress.NewReporter(threads, src.Total(), pipe, aux)

		sig := progress.DefaultSignal
		if opts.sigintProg {
			sig = syscall.SIGINT
		}

		var watchCtx context.Context

		watchCtx, watchCancel = context.WithCancel(ctx)
		watchDone = make(chan error, 1)

		go func() {
			watchDone <- cliutil.WatchAndExport(watchCtx, reporter, sig, dest, destPath, opts.exportOnProg)
		}()
	}

	var wg sync.WaitGroup

	var matched atomic.Int64

	var firstErr atomic.Pointer[error]

	for mod := 0; mod < threads; mod++ {
		mod := mod

		wg.Go(func() {
			n, err := src.QueryParallel(mask, bits, threads, mod, nil, func(set []int64, _ int, _ byte) error {
				return expandOne(set, dest, table, flags)
			})

			matched.Add(int64(n))

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
		fmt.Fprintf(stderr, "error: generation stage: %v\n", *p)
		return cliutil.ExitRuntimeErr
	}

	if err := dest.Export(destPath); err != nil {
		fmt.Fprintf(stderr, "error: export %s: %v\n", destPath, err)
		return cliutil.ExitRuntimeErr
	}

	if opts.verbose {
		fmt.Fprintf(stdout, "gen: expanded %d matching entries from %s into %s\n", matched.Load(), srcPath, destPath)
	}

	return cliutil.ExitOK
}

// expansionFlags derives the expand.Flags this run uses from -s/-m: given
// neither, both supersets and arithmetic mutation run; given one alone,
// only that mode runs; given both, same as neither (both run).
func expansionFlags(opts genOpts) expand.Flags {
	if opts.supersOnly && !opts.mutationsOnly {
		return expand.Supers
	}

	if opts.mutationsOnly && !opts.supersOnly {
		return expand.MutAdd | expand.MutMul
	}

	return expand.Supers | expand.MutAdd | expand.MutMul
}

// expandOne expands set into dest, marking superset-derived emissions
// NULLIFIABLE|ONLY_SUPERSET and arithmetic-mutation-derived emissions
// NULLIFIABLE only.
func expandOne(set []int64, dest *setrecord.Record, table *expand.Table, flags expand.Flags) error {
	if flags&expand.Supers != 0 {
		if err := expand.Expand(set, dest.MinM(), dest.MaxM(), expand.Supers, table, func(ns []int64) error {
			_, err := dest.Mark(ns, setrecord.Marked)
			return err
		}); err != nil {
			return err
		}
	}

	mut := flags & (expand.MutAdd | expand.MutMul)
	if mut != 0 {
		if err := expand.Expand(set, dest.MinM(), dest.MaxM(), mut, table, func(ns []int64) error {
			_, err := dest.Mark(ns, setrecord.Nullifiable)
			return err
		}); err != nil {
			return err
		}
	}

	return nil
}
