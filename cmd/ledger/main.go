package main

import (
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"expenses/internal/backend"
	"expenses/internal/cache"
	"expenses/internal/cli"
	"expenses/internal/core"
	apphttp "expenses/internal/http"
	applog "expenses/internal/log"
	"expenses/internal/services"
)

const cacheSweepInterval = time.Minute

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()

	logger := cli.SetupLogger(applog.ComponentApp, os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	factory := backend.NewFactory(logger.Logger)

	store, err := factory.CreateStore(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize store", "error", err, "store", backendCfg.Store)
		os.Exit(1)
	}

	publisher, err := factory.CreatePublisher(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize event publisher", "error", err, "events", backendCfg.Events)
		_ = store.Close()
		os.Exit(1)
	}

	records := cache.NewLRUCache[core.ExpenseRecord](cfg.RecordCacheSize, cfg.RecordCacheTTL)
	opts := []services.Option{
		services.WithRecordCache(records),
		services.WithLogger(logger.WithComponent(applog.ComponentLedger)),
	}
	if publisher != nil {
		opts = append(opts, services.WithPublisher(publisher))
	}
	service := services.NewExpenseService(store, opts...)

	srv := apphttp.NewServer(apphttp.Config{
		Addr:               ":" + cfg.Port,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Logger:             logger,
		CacheStats:         records.Stats,
	}, service)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting ledger server",
			"port", cfg.Port,
			"store", backendCfg.Store,
			"events", backendCfg.Events)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return cache.NewJanitor(cacheSweepInterval, records).Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		cli.RunCleanup(logger, cfg.ShutdownTimeout, srv.Shutdown)
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err, "port", cfg.Port)
	}

	if err := service.Close(); err != nil {
		logger.Error("Failed to close ledger", "error", err)
	}
	logger.Info("Server stopped gracefully")
}
