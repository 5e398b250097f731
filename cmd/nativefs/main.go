package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/brettbedarf/nativefs"
	"github.com/brettbedarf/nativefs/config"
	"github.com/brettbedarf/nativefs/filesystem"
)

func main() {
	// Setup signal handling so long walks stop cleanly
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	root := newRootCmd(func(cfg *config.Config) nativefs.Facade {
		return filesystem.New(cfg)
	})
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
