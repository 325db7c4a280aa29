package collector

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/harpoon/collector/internal/api"
	"github.com/harpoon/collector/internal/model"
)

// TradeFetcher lists transactions for a condition id.
type TradeFetcher interface {
	ListTrades(ctx context.Context, conditionID string, after time.Time, limit int) ([]api.APITrade, error)
}

// TradeStore persists trades and answers watermark queries.
type TradeStore interface {
	InsertTrades(ctx context.Context, trades []model.Trade) (inserted, conflicts int, err error)
	LatestTradeTime(ctx context.Context, marketID string) (time.Time, error)
}

// TradeConfig holds trade collector settings and monetary thresholds.
type TradeConfig struct {
	BatchSize  int
	BatchPause time.Duration
	Timeout    time.Duration
	PageLimit  int

	// Lookback bounds the fetch window. It must exceed the poll interval
	// so missed ticks (restarts, rate-limit backoff) are covered; the
	// overlap is absorbed by idempotent inserts.
	Lookback time.Duration

	MinSizeUSD float64
	LargeUSD   float64
	WhaleUSD   float64
}

// TradeCollector incrementally ingests transactions for every trade-eligible
// catalog market.
type TradeCollector struct {
	cfg     TradeConfig
	client  TradeFetcher
	catalog CatalogSource
	store   TradeStore
	logger  *slog.Logger

	now func() time.Time
}

// NewTradeCollector creates a TradeCollector.
func NewTradeCollector(cfg TradeConfig, client TradeFetcher, catalog CatalogSource, store TradeStore, logger *slog.Logger) *TradeCollector {
	if logger == nil {
		logger = slog.Default()
	}
	return &TradeCollector{
		cfg:     cfg,
		client:  client,
		catalog: catalog,
		store:   store,
		logger:  logger,
		now:     time.Now,
	}
}

// Collect runs one trade ingestion cycle.
//
// inserted counts newly stored rows. skipped counts candidates dropped for
// being below the minimum dollar size plus duplicate deliveries absorbed by
// the conflict-ignore insert. failed counts markets that could not be
// polled this cycle, including those still missing a condition id.
func (c *TradeCollector) Collect(ctx context.Context) (inserted, skipped, failed int) {
	start := c.now()
	markets := c.catalog.Markets()

	var ins, skip, fail atomic.Int64

	forEachBatch(ctx, markets, c.cfg.BatchSize, c.cfg.BatchPause, func(ctx context.Context, m model.Market) {
		// A failed market may still have stored rows before the error, so
		// its partial counts are kept.
		i, s, ok := c.collectMarket(ctx, m)
		ins.Add(int64(i))
		skip.Add(int64(s))
		if !ok {
			fail.Add(1)
		}
	})

	inserted = int(ins.Load())
	skipped = int(skip.Load())
	failed = int(fail.Load())

	c.logger.Info("trade cycle complete",
		"markets", len(markets),
		"inserted", inserted,
		"skipped", skipped,
		"failed", failed,
		"duration", time.Since(start),
	)

	return inserted, skipped, failed
}

// collectMarket ingests one market's recent transactions. ok is false when
// the market could not be polled at all this cycle.
func (c *TradeCollector) collectMarket(ctx context.Context, m model.Market) (inserted, skipped int, ok bool) {
	if !m.TradeEligible() {
		// The condition id is learned by the snapshot path; until then the
		// market cannot be queried for trades.
		c.logger.Debug("market missing condition id", "market_id", m.ID)
		return 0, 0, false
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	raw, err := c.client.ListTrades(reqCtx, m.ConditionID, c.now().Add(-c.cfg.Lookback), c.cfg.PageLimit)
	if err != nil {
		c.logger.Warn("trade fetch failed", "market_id", m.ID, "err", err)
		return 0, 0, false
	}
	if len(raw) == 0 {
		return 0, 0, true
	}

	watermark, err := c.store.LatestTradeTime(reqCtx, m.ID)
	if err != nil {
		c.logger.Warn("watermark read failed", "market_id", m.ID, "err", err)
		return 0, 0, false
	}

	trades := make([]model.Trade, 0, len(raw))
	for _, rt := range raw {
		ts := time.Unix(rt.Timestamp, 0).UTC()
		if !ts.After(watermark) {
			continue
		}

		tr := c.buildTrade(m, rt, ts)
		if tr.USD < c.cfg.MinSizeUSD {
			skipped++
			continue
		}
		trades = append(trades, tr)
	}

	if len(trades) == 0 {
		return 0, skipped, true
	}

	ins, conflicts, err := c.store.InsertTrades(reqCtx, trades)
	if err != nil {
		c.logger.Warn("trade insert failed", "market_id", m.ID, "count", len(trades), "err", err)
		return ins, skipped, false
	}

	// A conflict means an overlapping cycle already stored the row.
	return ins, skipped + conflicts, true
}

// buildTrade derives the stored trade from a raw record. The dollar value
// and both size flags come from shares*price; the raw size field is a share
// count and must never be read as currency.
func (c *TradeCollector) buildTrade(m model.Market, rt api.APITrade, ts time.Time) model.Trade {
	id := rt.TransactionHash
	if id == "" {
		id = model.FallbackTradeID(m.ConditionID, ts, rt.Asset)
	}

	tr := model.NewTrade(id, m.ID, rt.Side, rt.Outcome, rt.Size, rt.Price, ts, c.cfg.LargeUSD, c.cfg.WhaleUSD)
	tr.Trader = rt.Name
	tr.Wallet = rt.ProxyWallet
	return tr
}
