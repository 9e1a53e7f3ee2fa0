package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/quantmind-br/pfscript/internal/cmd"
	"github.com/quantmind-br/pfscript/internal/config"
	"github.com/quantmind-br/pfscript/internal/logging"
	"github.com/quantmind-br/pfscript/internal/ui"
)

var version = "dev"

func main() {
	// Ctrl+C interrupts a running script instead of killing pfscript
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string) int {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return 1
	}

	ui.InitColors(cfg.Logging.Color)

	// Initialize logger
	log := logging.NewLogger(logging.Config{
		Level:   cfg.Logging.Level,
		LogFile: cfg.Paths.LogFile,
		NoColor: cfg.Logging.Color == "never",
	})

	// Execute root command
	rootCmd := cmd.NewRootCmd(cfg, log, version)
	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Debug().Err(err).Msg("command failed")
		return 1
	}
	return 0
}
