// Package bootstrap handles application initialization and lifecycle management
// for the mithrilforge service.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	infralogger "github.com/ksnll/mithrilforge/infrastructure/logger"
	"github.com/ksnll/mithrilforge/infrastructure/profiling"
	"github.com/ksnll/mithrilforge/internal/telemetry"
)

// Version is stamped at build time.
var Version = "dev"

// Options are the command-line overrides for Start.
type Options struct {
	ConfigPath string
	Debug      bool
}

// Start initializes the service and serves until ctx is cancelled.
func Start(ctx context.Context, opts Options) error {
	// Phase 1: config and logger
	cfg, err := LoadConfig(opts)
	if err != nil {
		return err
	}
	if err = cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	log, err := CreateLogger(cfg, Version)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := telemetry.NewMetrics(registry)

	// Phase 2: database and migrations
	db, err := SetupDatabase(ctx, cfg, log, true)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("Failed to close database", infralogger.Error(closeErr))
		}
	}()

	// Phase 3: event bus and the optional stream mirror
	evs := SetupEvents(ctx, cfg, metrics, log)
	defer evs.Close()

	// Phase 4: enrichment and the website service
	svc := SetupService(cfg, db, evs.Bus, metrics, log)

	// Phase 5: HTTP server
	server := SetupHTTPServer(cfg, db, svc, registry, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(gctx)
	})
	g.Go(func() error {
		return profiling.Run(gctx, cfg.Profiling, log)
	})
	if evs.Mirror != nil {
		g.Go(func() error {
			return evs.Mirror.Run(gctx)
		})
	}
	// Closing the bus ends open event streams so the server can drain.
	g.Go(func() error {
		<-gctx.Done()
		evs.Bus.Close()
		return nil
	})

	if err = g.Wait(); err != nil {
		log.Error("Service stopped with error", infralogger.Error(err))
		return fmt.Errorf("run: %w", err)
	}

	log.Info("Service exited")
	return nil
}
