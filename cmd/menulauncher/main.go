// Menulauncher browses JSON menu documents in the terminal and starts the
// commands they describe.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/johnconnor-sec/menulauncher/internal/logger"
	"github.com/johnconnor-sec/menulauncher/internal/output"
)

// Build information - set by linker flags
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	logger.Build = logger.BuildInfo{Version: version, Commit: commit}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		handleError(err)
	}
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func handleError(err error) {
	output.NewFormatter(os.Stderr).Failure(err)
}
