package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/cockroachdb/errors"

	"github.com/rolledback/safediff/internal/cli"
)

const (
	exitDifferences = 1
	exitError       = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := cli.NewRootCommand(cli.DefaultDeps()).ExecuteContext(ctx)
	switch {
	case err == nil:
	case errors.Is(err, cli.ErrDifferences):
		stop()
		os.Exit(exitDifferences)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		stop()
		os.Exit(exitError)
	}
}
