package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spacemeshos/bitseq/cmd/bitseq/cmd"
)

var (
	// Version is the version of the binary.
	Version = "0.0.0"

	// Commit is the commit hash of the binary.
	Commit = ""
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd.Version = Version
	cmd.Commit = Commit
	cmd.Execute(ctx)
}
