package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/harpoon/collector/internal/api"
	"github.com/harpoon/collector/internal/catalog"
	"github.com/harpoon/collector/internal/collector"
	"github.com/harpoon/collector/internal/config"
	"github.com/harpoon/collector/internal/retention"
	"github.com/harpoon/collector/internal/scheduler"
	"github.com/harpoon/collector/internal/store"
	"github.com/harpoon/collector/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/collector.yaml", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting collector",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Rebuild the logger at the configured level.
	logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.Instance.LogLevel),
	}))
	slog.SetDefault(logger)

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"gamma_url", cfg.API.GammaURL,
		"data_url", cfg.API.DataURL,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connect to database
	logger.Info("connecting to database",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
	)

	db, err := store.Connect(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	logger.Info("database connected")

	// Create API client
	apiClient := api.NewClient(
		cfg.API.GammaURL,
		cfg.API.DataURL,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
	)

	// Build the market catalog and its refresher.
	cat := catalog.New()
	refresher := catalog.NewRefresher(catalog.Config{
		TagSlug:   cfg.Discovery.TagSlug,
		PageSize:  cfg.Discovery.PageSize,
		MinVolume: cfg.Discovery.MinVolume,
		Timeout:   cfg.Discovery.Timeout,
	}, apiClient, cat, db, logger)

	snapshots := collector.NewSnapshotCollector(collector.SnapshotConfig{
		BatchSize:  cfg.Snapshots.BatchSize,
		BatchPause: cfg.Snapshots.BatchPause,
		Timeout:    cfg.Snapshots.Timeout,
	}, apiClient, cat, db, logger)

	trades := collector.NewTradeCollector(collector.TradeConfig{
		BatchSize:  cfg.Trades.BatchSize,
		BatchPause: cfg.Trades.BatchPause,
		Timeout:    cfg.Trades.Timeout,
		PageLimit:  cfg.Trades.PageLimit,
		Lookback:   cfg.Trades.Lookback,
		MinSizeUSD: cfg.Trades.MinSizeUSD,
		LargeUSD:   cfg.Trades.LargeUSD,
		WhaleUSD:   cfg.Trades.WhaleUSD,
	}, apiClient, cat, db, logger)

	sweeper := retention.NewManager(retention.Config{
		SnapshotWindow: cfg.Retention.SnapshotWindow,
		TradeWindow:    cfg.Retention.TradeWindow,
		Timeout:        cfg.Retention.Timeout,
	}, db, logger)

	// Wire the cycles. Snapshots wait for the first discovery pass so they
	// have a catalog to walk; trades wait for the first snapshot pass so
	// condition IDs have been learned.
	sched := scheduler.New(logger)
	sched.Add(scheduler.Task{
		Name:     "discovery",
		Interval: cfg.Discovery.Interval,
		Signals:  "catalog",
		Run: func(ctx context.Context) {
			if _, err := refresher.Refresh(ctx); err != nil {
				logger.Error("discovery cycle failed", "error", err)
			}
		},
	})
	sched.Add(scheduler.Task{
		Name:     "snapshots",
		Interval: cfg.Snapshots.Interval,
		WaitFor:  "catalog",
		Signals:  "snapshots",
		Run: func(ctx context.Context) {
			snapshots.Collect(ctx)
		},
	})
	sched.Add(scheduler.Task{
		Name:     "trades",
		Interval: cfg.Trades.Interval,
		WaitFor:  "snapshots",
		Run: func(ctx context.Context) {
			trades.Collect(ctx)
		},
	})
	sched.Add(scheduler.Task{
		Name:     "retention",
		Interval: cfg.Retention.Interval,
		Run: func(ctx context.Context) {
			sweeper.Sweep(ctx)
		},
	})

	// Start health server before the scheduler so startup is observable.
	healthServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Health.Port),
		Handler: createHealthHandler(db, cat, logger),
	}

	go func() {
		logger.Info("starting health server", "port", cfg.Health.Port)
		if err := healthServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("health server error", "error", err)
		}
	}()

	if err := sched.Start(ctx); err != nil {
		logger.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}

	logger.Info("collector running",
		"instance_id", cfg.Instance.ID,
		"health_url", fmt.Sprintf("http://localhost:%d/health", cfg.Health.Port),
	)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := sched.Stop(shutdownCtx); err != nil {
		logger.Warn("scheduler shutdown timed out", "error", err)
	}
	healthServer.Shutdown(shutdownCtx)

	logger.Info("collector stopped")
}

// parseLevel maps a config log level to a slog level, defaulting to info.
func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// createHealthHandler creates the HTTP handler for health checks.
func createHealthHandler(db *store.Store, cat *catalog.Catalog, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		health := struct {
			Status     string                 `json:"status"`
			Components map[string]interface{} `json:"components"`
		}{
			Status:     "healthy",
			Components: make(map[string]interface{}),
		}

		// Check database
		if err := db.Ping(ctx); err != nil {
			health.Status = "unhealthy"
			health.Components["postgres"] = map[string]string{
				"status": "disconnected",
				"error":  err.Error(),
			}
		} else {
			health.Components["postgres"] = "connected"
		}

		// Check the market catalog
		tracked := cat.Len()
		health.Components["catalog"] = map[string]interface{}{
			"markets": tracked,
		}
		if tracked == 0 {
			health.Status = "degraded"
		}

		// Set response
		w.Header().Set("Content-Type", "application/json")
		if health.Status == "unhealthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(health)
	})

	mux.HandleFunc("/debug/markets", func(w http.ResponseWriter, r *http.Request) {
		markets := cat.Markets()

		// Limit to first 100 for debugging
		limit := 100
		showing := markets
		if len(showing) > limit {
			showing = showing[:limit]
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"count":   len(markets),
			"showing": len(showing),
			"markets": showing,
		})
	})

	return mux
}
