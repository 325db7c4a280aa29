package collector

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/harpoon/collector/internal/api"
	"github.com/harpoon/collector/internal/model"
)

// CatalogSource provides the markets to poll and receives learned
// condition ids.
type CatalogSource interface {
	Markets() []model.Market
	SetConditionID(marketID, conditionID string)
}

// MarketFetcher fetches current market detail records.
type MarketFetcher interface {
	GetMarket(ctx context.Context, marketID string) (*api.APIMarket, error)
}

// SnapshotStore persists snapshots and answers prior-snapshot queries.
type SnapshotStore interface {
	InsertSnapshots(ctx context.Context, snapshots []model.Snapshot) error
	LatestSnapshotBefore(ctx context.Context, marketID string, t time.Time) (*model.Snapshot, error)
}

// SnapshotConfig holds snapshot collector settings.
type SnapshotConfig struct {
	BatchSize  int
	BatchPause time.Duration
	Timeout    time.Duration // Bounds each market's fetch+lookups and the batch insert
}

// SnapshotCollector polls current price state for every catalog market and
// writes one snapshot row per market per cycle.
type SnapshotCollector struct {
	cfg     SnapshotConfig
	client  MarketFetcher
	catalog CatalogSource
	store   SnapshotStore
	logger  *slog.Logger

	now func() time.Time
}

// NewSnapshotCollector creates a SnapshotCollector.
func NewSnapshotCollector(cfg SnapshotConfig, client MarketFetcher, catalog CatalogSource, store SnapshotStore, logger *slog.Logger) *SnapshotCollector {
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotCollector{
		cfg:     cfg,
		client:  client,
		catalog: catalog,
		store:   store,
		logger:  logger,
		now:     time.Now,
	}
}

// Collect runs one snapshot cycle and returns inserted/skipped counts.
// Validated snapshots for the cycle are submitted as a single batch write;
// a batch failure is logged and loses only this cycle.
func (c *SnapshotCollector) Collect(ctx context.Context) (inserted, skipped int) {
	start := c.now()
	markets := c.catalog.Markets()
	if len(markets) == 0 {
		c.logger.Debug("no markets to snapshot")
		return 0, 0
	}

	var (
		mu        sync.Mutex
		snapshots []model.Snapshot
		skipCount atomic.Int64
	)

	forEachBatch(ctx, markets, c.cfg.BatchSize, c.cfg.BatchPause, func(ctx context.Context, m model.Market) {
		snap, ok := c.snapshotMarket(ctx, m)
		if !ok {
			skipCount.Add(1)
			return
		}
		mu.Lock()
		snapshots = append(snapshots, snap)
		mu.Unlock()
	})

	if len(snapshots) > 0 {
		insertCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
		if err := c.store.InsertSnapshots(insertCtx, snapshots); err != nil {
			c.logger.Error("snapshot batch insert failed", "count", len(snapshots), "err", err)
			snapshots = nil
		}
	}

	inserted = len(snapshots)
	skipped = int(skipCount.Load())

	c.logger.Info("snapshot cycle complete",
		"markets", len(markets),
		"inserted", inserted,
		"skipped", skipped,
		"duration", time.Since(start),
	)

	return inserted, skipped
}

// snapshotMarket fetches and validates one market's detail record. All
// rejections are skips, never errors.
func (c *SnapshotCollector) snapshotMarket(ctx context.Context, m model.Market) (model.Snapshot, bool) {
	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	detail, err := c.client.GetMarket(reqCtx, m.ID)
	if err != nil {
		c.logger.Warn("market detail fetch failed", "market_id", m.ID, "err", err)
		return model.Snapshot{}, false
	}

	// The condition id rides on the detail record; record it even when the
	// snapshot itself is rejected, so trade polling becomes possible.
	if detail.ConditionID != "" {
		c.catalog.SetConditionID(m.ID, detail.ConditionID)
	}

	if detail.Status() != model.StatusActive {
		c.logger.Debug("market not active, skipping", "market_id", m.ID)
		return model.Snapshot{}, false
	}

	yes, no, err := detail.OutcomePrices()
	if err != nil {
		c.logger.Debug("unusable prices, skipping", "market_id", m.ID, "err", err)
		return model.Snapshot{}, false
	}

	m.Volume24h = detail.Volume24hr
	m.Liquidity = detail.LiquidityNum

	now := c.now()
	snap := model.NewSnapshot(m, now, yes, no)
	c.attachDeltas(reqCtx, &snap, now)

	return snap, true
}

// attachDeltas computes change fields against prior snapshots. Every delta
// stays nil until a suitable prior row exists; a failed prior lookup only
// costs the delta, not the snapshot.
func (c *SnapshotCollector) attachDeltas(ctx context.Context, snap *model.Snapshot, now time.Time) {
	prior, err := c.store.LatestSnapshotBefore(ctx, snap.MarketID, now)
	if err != nil {
		c.logger.Debug("prior snapshot lookup failed", "market_id", snap.MarketID, "err", err)
		return
	}
	if prior != nil {
		pd := snap.YesPrice - prior.YesPrice
		vd := snap.Volume24h - prior.Volume24h
		snap.PriceChange5Min = &pd
		snap.VolumeChange24H = &vd
	}

	if prior, err := c.store.LatestSnapshotBefore(ctx, snap.MarketID, now.Add(-time.Hour)); err == nil && prior != nil {
		d := snap.YesPrice - prior.YesPrice
		snap.PriceChange1H = &d
	}

	if prior, err := c.store.LatestSnapshotBefore(ctx, snap.MarketID, now.Add(-24*time.Hour)); err == nil && prior != nil {
		d := snap.YesPrice - prior.YesPrice
		snap.PriceChange24H = &d
	}
}
