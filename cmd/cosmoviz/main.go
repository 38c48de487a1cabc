// Command cosmoviz renders loss curves and truth-vs-prediction plots for
// cosmological parameter inference runs.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/roach88/cosmoviz/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.NewRootCommand().ExecuteContext(ctx)
	stop()
	os.Exit(cli.GetExitCode(err))
}
