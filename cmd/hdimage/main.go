package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/onkernel/hdimage/cmd/hdimage/config"
	"github.com/onkernel/hdimage/lib/build"
)

// application struct to hold initialized components
type application struct {
	Ctx     context.Context
	Logger  *slog.Logger
	Config  *config.Config
	Builder *build.Builder
	Targets []build.Target
}

func main() {
	if err := run(); err != nil {
		slog.Error("image build failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	app, cleanup, err := initializeApp()
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	defer cleanup()

	slog.SetDefault(app.Logger)

	// Setup context with signal handling
	ctx, stop := signal.NotifyContext(app.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app.Logger.InfoContext(ctx, "building images",
		"config", app.Config.ConfigFile,
		"input", app.Config.InputPath,
		"output", app.Config.OutputPath)

	return app.Builder.Run(ctx, app.Targets)
}
