// Package main is the entry point for the tabfilter command.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"tabfilter/cmd/tabfilter/app"
	"tabfilter/internal/util/logx"
)

func main() {
	logx.SetLevelFromEnv()

	// Setup cancellation on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.NewRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
