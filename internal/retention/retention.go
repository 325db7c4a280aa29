// Package retention sweeps expired rows out of the time-series collections.
package retention

import (
	"context"
	"log/slog"
	"time"
)

// Pruner deletes rows past a time cutoff.
type Pruner interface {
	DeleteSnapshotsBefore(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteTradesBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Config holds the retention windows.
type Config struct {
	SnapshotWindow time.Duration
	TradeWindow    time.Duration
	Timeout        time.Duration // Bounds each range delete
}

// Manager deletes snapshot and trade rows past their retention windows.
// Sweeps are idempotent and safe to run concurrently with collection:
// deletes only touch rows already outside every collector's working window.
type Manager struct {
	cfg    Config
	store  Pruner
	logger *slog.Logger

	now func() time.Time
}

// NewManager creates a Manager.
func NewManager(cfg Config, store Pruner, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		cfg:    cfg,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Sweep removes expired rows from both collections. One collection's failure
// does not stop the other's sweep.
func (m *Manager) Sweep(ctx context.Context) {
	start := m.now()

	snapCtx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	snapshots, err := m.store.DeleteSnapshotsBefore(snapCtx, start.Add(-m.cfg.SnapshotWindow))
	cancel()
	if err != nil {
		m.logger.Error("snapshot sweep failed", "err", err)
	}

	tradeCtx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	trades, err := m.store.DeleteTradesBefore(tradeCtx, start.Add(-m.cfg.TradeWindow))
	cancel()
	if err != nil {
		m.logger.Error("trade sweep failed", "err", err)
	}

	m.logger.Info("retention sweep complete",
		"snapshots_deleted", snapshots,
		"trades_deleted", trades,
		"duration", time.Since(start),
	)
}
