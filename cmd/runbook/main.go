package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alexisbeaulieu97/runbookmd/internal/infrastructure/events"
	"github.com/alexisbeaulieu97/runbookmd/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/runbookmd/internal/runbookapp"
	"github.com/alexisbeaulieu97/runbookmd/internal/settings"
)

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve working directory: %v\n", err)
		os.Exit(1)
	}

	runbookSettings, err := settings.Load(cwd, settings.Overrides{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load settings: %v\n", err)
		os.Exit(1)
	}

	appLogger, err := logging.New(logging.Options{
		Level:     "info",
		Component: "cli",
		Layer:     "infrastructure",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create application logger: %v\n", err)
		os.Exit(1)
	}

	correlationID := logging.GenerateCorrelationID()
	ctx := logging.WithCorrelationID(context.Background(), correlationID)

	eventPublisher := events.NewLoggingPublisher(appLogger.With("component", "event_publisher"))

	app := &AppContext{
		Logger:   appLogger,
		Events:   eventPublisher,
		Settings: runbookSettings,
		Prepare:  runbookapp.NewPrepareUseCase(appLogger.With("component", "prepare"), eventPublisher, runbookSettings),
		Run:      runbookapp.NewRunUseCase(appLogger.With("component", "executor"), eventPublisher, runbookSettings),
	}

	rootCmd := newRootCmd(app)
	appLogger.Info(ctx, "starting runbook command", "pid", os.Getpid())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
