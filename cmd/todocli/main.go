// Package main is the entry point for the todocli CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"todocli/internal/api"
	"todocli/internal/cli"
	"todocli/internal/commands"
	"todocli/internal/config"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Create backend factory
	factory := func(ctx context.Context, cfg *config.Config) (commands.Backend, error) {
		return api.New(cfg.BaseURL), nil
	}

	// Create dispatcher
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	// Run and exit with code
	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}
