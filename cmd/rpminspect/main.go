package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"rpminspect/internal/failure"
	"rpminspect/internal/pipeline"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		reportError(stderr, err)
	}
	return failure.ExitCode(err)
}

// reportError prints fatal errors. Failed inspections were already reported
// through the chosen output format.
func reportError(w io.Writer, err error) {
	if errors.Is(err, pipeline.ErrInspectionsFailed) || errors.Is(err, context.Canceled) {
		return
	}
	fmt.Fprintf(w, "*** %s\n", err)
	if failure.NeedsHint(err) {
		fmt.Fprintln(w, "*** See `rpminspect --help` for more information.")
	}
}
