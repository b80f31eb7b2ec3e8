package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/animares/cmd/schemagen/commands"
	"github.com/spaghettifunk/animares/engine/core"
)

// Version information (set via ldflags during build)
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := commands.Execute(ctx, Version, Commit); err != nil {
		core.LogError("schemagen: %s", err)
		os.Exit(1)
	}
}
