package main

import (
	"context"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"expenses/internal/backend"
	"expenses/internal/cli"
	applog "expenses/internal/log"
	"expenses/internal/worker"
)

const (
	seenCacheSize = 10000
	restartDelay  = 5 * time.Second
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(applog.ComponentWorker, os.Getenv("LOG_LEVEL"))
	logger.Info("Starting ledger-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	factory := backend.NewFactory(logger.Logger)

	mirror, err := factory.CreateMirror(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize mirror", "error", err)
		os.Exit(1)
	}

	source, closeSource, err := factory.CreateSource(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize event source", "error", err, "events", backendCfg.Events)
		os.Exit(1)
	}

	mirrorWorker := worker.NewMirrorWorker(mirror, seenCacheSize)
	runner := worker.NewRunner(source, mirrorWorker.HandleExpenseCreated, restartDelay)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return runner.Run(gctx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Worker stopped with error", "error", err)
	}

	cli.RunCleanup(logger, cfg.ShutdownTimeout, func(context.Context) error {
		return closeSource()
	})

	stats := mirrorWorker.Stats()
	logger.Info("Worker stopped",
		"mirrored", stats.Mirrored,
		"skipped", stats.Skipped,
		"failed", stats.Failed)
}
