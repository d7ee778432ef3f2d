package main

import (
	"fmt"
	"os"

	"github.com/jborjas31/my-scheduler/internal/config"
	"github.com/jborjas31/my-scheduler/internal/logging"
	"github.com/jborjas31/my-scheduler/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, closer, err := logging.New(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	defer func() { _ = closer.Close() }()

	app := ui.NewApp(cfg, ui.WithLogger(log))
	defer func() { _ = app.Close() }()
	return app.Execute()
}
