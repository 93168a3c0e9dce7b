// Package main is the entry point for the gitmine CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/gitmine/cmd"
	"github.com/huangsam/gitmine/internal/iocache"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	cmd.SetRootContext(ctx)

	err := cmd.Execute()
	stop()
	iocache.CloseCaching()
	if err != nil {
		os.Exit(1)
	}
}
