// Command vaultag builds a semantic index of a note vault, synthesizes a
// hierarchical tag taxonomy from it and finds related notes.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/vaultag/internal/adapters/driving/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	if err := cli.Execute(ctx, build); err != nil {
		stop()
		os.Exit(1)
	}
}
