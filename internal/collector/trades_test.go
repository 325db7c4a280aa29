package collector

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/harpoon/collector/internal/api"
	"github.com/harpoon/collector/internal/model"
)

// fakeTradeFetcher serves canned trades per condition id.
type fakeTradeFetcher struct {
	mu     sync.Mutex
	trades map[string][]api.APITrade
	errs   map[string]error
	calls  int
}

func (f *fakeTradeFetcher) ListTrades(ctx context.Context, conditionID string, after time.Time, limit int) ([]api.APITrade, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := f.errs[conditionID]; err != nil {
		return nil, err
	}
	return f.trades[conditionID], nil
}

// fakeTradeStore emulates the trade ledger's conflict-ignore insert.
type fakeTradeStore struct {
	mu           sync.Mutex
	rows         map[string]model.Trade
	insertErr    error
	watermarkErr error
}

func newFakeTradeStore() *fakeTradeStore {
	return &fakeTradeStore{rows: make(map[string]model.Trade)}
}

func (f *fakeTradeStore) InsertTrades(ctx context.Context, trades []model.Trade) (int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return 0, 0, f.insertErr
	}
	var inserted, conflicts int
	for _, tr := range trades {
		if _, exists := f.rows[tr.ID]; exists {
			conflicts++
			continue
		}
		f.rows[tr.ID] = tr
		inserted++
	}
	return inserted, conflicts, nil
}

func (f *fakeTradeStore) LatestTradeTime(ctx context.Context, marketID string) (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.watermarkErr != nil {
		return time.Time{}, f.watermarkErr
	}
	var latest time.Time
	for _, tr := range f.rows {
		if tr.MarketID == marketID && tr.Timestamp.After(latest) {
			latest = tr.Timestamp
		}
	}
	return latest, nil
}

func tradeCfg() TradeConfig {
	return TradeConfig{
		BatchSize:  10,
		BatchPause: time.Millisecond,
		Timeout:    5 * time.Second,
		PageLimit:  500,
		Lookback:   10 * time.Minute,
		MinSizeUSD: 10000,
		LargeUSD:   10000,
		WhaleUSD:   50000,
	}
}

func eligibleMarket() model.Market {
	return model.Market{ID: "m-1", ConditionID: "0xc1", Question: "Q"}
}

func TestTradeCollector_USDFilterAndFlags(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	fetcher := &fakeTradeFetcher{trades: map[string][]api.APITrade{
		"0xc1": {
			// Big share count, tiny price: $428.74, below the minimum.
			{TransactionHash: "0xsmall", Side: "BUY", Outcome: "Yes", Size: 428736.26, Price: 0.001, Timestamp: now.Add(-time.Minute).Unix()},
			// $99,295.31: stored and whale flagged.
			{TransactionHash: "0xwhale", Side: "BUY", Outcome: "Yes", Size: 99295.31, Price: 1.0, Timestamp: now.Add(-2 * time.Minute).Unix()},
		},
	}}
	store := newFakeTradeStore()

	c := NewTradeCollector(tradeCfg(), fetcher, newFakeCatalog(eligibleMarket()), store, nil)
	c.now = func() time.Time { return now }

	inserted, skipped, failed := c.Collect(context.Background())

	if inserted != 1 || skipped != 1 || failed != 0 {
		t.Errorf("Collect = (%d, %d, %d), want (1, 1, 0)", inserted, skipped, failed)
	}

	if _, exists := store.rows["0xsmall"]; exists {
		t.Error("below-minimum trade was stored")
	}

	whale, exists := store.rows["0xwhale"]
	if !exists {
		t.Fatal("whale trade missing from store")
	}
	if !whale.IsWhaleTrade || !whale.IsLargeTrade {
		t.Errorf("whale flags = (large=%v, whale=%v), want both true", whale.IsLargeTrade, whale.IsWhaleTrade)
	}
	if diff := whale.USD - 99295.31; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("USD = %f, want 99295.31", whale.USD)
	}
}

func TestTradeCollector_IdempotentAcrossOverlappingCycles(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	raw := api.APITrade{TransactionHash: "0xdup", Side: "SELL", Outcome: "No", Size: 50000, Price: 0.5, Timestamp: now.Add(-time.Minute).Unix()}
	fetcher := &fakeTradeFetcher{trades: map[string][]api.APITrade{"0xc1": {raw}}}
	store := newFakeTradeStore()

	c := NewTradeCollector(tradeCfg(), fetcher, newFakeCatalog(eligibleMarket()), store, nil)
	c.now = func() time.Time { return now }

	ins1, _, _ := c.Collect(context.Background())

	// Second, overlapping cycle re-observes the same record through the
	// lookback window with a stale watermark (as two concurrent cycles
	// would). Only the conflict-ignore insert prevents a duplicate row.
	c2 := NewTradeCollector(tradeCfg(), fetcher, newFakeCatalog(eligibleMarket()), &staleWatermarkStore{inner: store}, nil)
	c2.now = func() time.Time { return now.Add(30 * time.Second) }

	ins2, skip2, _ := c2.Collect(context.Background())

	if ins1 != 1 {
		t.Errorf("first cycle inserted = %d, want 1", ins1)
	}
	if ins2 != 0 {
		t.Errorf("second cycle inserted = %d, want 0 (conflict)", ins2)
	}
	if skip2 != 1 {
		t.Errorf("second cycle skipped = %d, want 1 (duplicate absorbed)", skip2)
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.rows) != 1 {
		t.Errorf("stored rows = %d, want exactly 1", len(store.rows))
	}
}

// staleWatermarkStore reports a zero watermark while delegating inserts,
// modeling a replication-lagged read.
type staleWatermarkStore struct {
	inner *fakeTradeStore
}

func (s *staleWatermarkStore) InsertTrades(ctx context.Context, trades []model.Trade) (int, int, error) {
	return s.inner.InsertTrades(ctx, trades)
}

func (s *staleWatermarkStore) LatestTradeTime(ctx context.Context, marketID string) (time.Time, error) {
	return time.Time{}, nil
}

func TestTradeCollector_WatermarkFiltersOldTrades(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	watermark := now.Add(-3 * time.Minute)

	store := newFakeTradeStore()
	store.rows["0xexisting"] = model.Trade{ID: "0xexisting", MarketID: "m-1", Timestamp: watermark}

	fetcher := &fakeTradeFetcher{trades: map[string][]api.APITrade{
		"0xc1": {
			{TransactionHash: "0xold", Size: 50000, Price: 0.5, Timestamp: watermark.Add(-time.Minute).Unix()},
			{TransactionHash: "0xat", Size: 50000, Price: 0.5, Timestamp: watermark.Unix()},
			{TransactionHash: "0xnew", Size: 50000, Price: 0.5, Timestamp: watermark.Add(time.Minute).Unix()},
		},
	}}

	c := NewTradeCollector(tradeCfg(), fetcher, newFakeCatalog(eligibleMarket()), store, nil)
	c.now = func() time.Time { return now }

	inserted, _, _ := c.Collect(context.Background())

	if inserted != 1 {
		t.Errorf("inserted = %d, want only the trade strictly after the watermark", inserted)
	}
	if _, exists := store.rows["0xnew"]; !exists {
		t.Error("strictly-newer trade missing")
	}
	if _, exists := store.rows["0xold"]; exists {
		t.Error("older-than-watermark trade stored")
	}
	if _, exists := store.rows["0xat"]; exists {
		t.Error("at-watermark trade stored; candidates must be strictly newer")
	}
}

func TestTradeCollector_MissingConditionIDCountsFailed(t *testing.T) {
	fetcher := &fakeTradeFetcher{}
	store := newFakeTradeStore()
	cat := newFakeCatalog(model.Market{ID: "m-no-cond"})

	c := NewTradeCollector(tradeCfg(), fetcher, cat, store, nil)

	inserted, skipped, failed := c.Collect(context.Background())

	if inserted != 0 || skipped != 0 || failed != 1 {
		t.Errorf("Collect = (%d, %d, %d), want (0, 0, 1)", inserted, skipped, failed)
	}
	if fetcher.calls != 0 {
		t.Errorf("fetcher called %d times for ineligible market, want 0", fetcher.calls)
	}
}

func TestTradeCollector_FailureContainedPerMarket(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	fetcher := &fakeTradeFetcher{
		trades: map[string][]api.APITrade{
			"0xc2": {{TransactionHash: "0xgood", Size: 50000, Price: 0.5, Timestamp: now.Add(-time.Minute).Unix()}},
		},
		errs: map[string]error{"0xc1": errors.New("upstream 429")},
	}
	store := newFakeTradeStore()
	cat := newFakeCatalog(
		model.Market{ID: "m-1", ConditionID: "0xc1"},
		model.Market{ID: "m-2", ConditionID: "0xc2"},
	)

	c := NewTradeCollector(tradeCfg(), fetcher, cat, store, nil)
	c.now = func() time.Time { return now }

	inserted, _, failed := c.Collect(context.Background())

	if failed != 1 {
		t.Errorf("failed = %d, want 1", failed)
	}
	if inserted != 1 {
		t.Errorf("inserted = %d, want 1; one market's failure must not block others", inserted)
	}
}

// partialInsertStore stores the first row of each batch and then fails,
// reporting the partial count the way a mid-batch write error would.
type partialInsertStore struct {
	inner *fakeTradeStore
}

func (s *partialInsertStore) InsertTrades(ctx context.Context, trades []model.Trade) (int, int, error) {
	ins, _, _ := s.inner.InsertTrades(ctx, trades[:1])
	return ins, 0, errors.New("connection reset")
}

func (s *partialInsertStore) LatestTradeTime(ctx context.Context, marketID string) (time.Time, error) {
	return s.inner.LatestTradeTime(ctx, marketID)
}

func TestTradeCollector_PartialInsertCounted(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	fetcher := &fakeTradeFetcher{trades: map[string][]api.APITrade{
		"0xc1": {
			{TransactionHash: "0xa", Size: 50000, Price: 0.5, Timestamp: now.Add(-2 * time.Minute).Unix()},
			{TransactionHash: "0xb", Size: 50000, Price: 0.5, Timestamp: now.Add(-time.Minute).Unix()},
		},
	}}
	store := &partialInsertStore{inner: newFakeTradeStore()}

	c := NewTradeCollector(tradeCfg(), fetcher, newFakeCatalog(eligibleMarket()), store, nil)
	c.now = func() time.Time { return now }

	inserted, _, failed := c.Collect(context.Background())

	if failed != 1 {
		t.Errorf("failed = %d, want 1", failed)
	}
	if inserted != 1 {
		t.Errorf("inserted = %d, want 1; rows stored before the error must be counted", inserted)
	}
}

func TestTradeCollector_FallbackIDWhenHashMissing(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	raw := api.APITrade{Asset: "asset-9", Size: 50000, Price: 0.5, Timestamp: now.Add(-time.Minute).Unix()}
	fetcher := &fakeTradeFetcher{trades: map[string][]api.APITrade{"0xc1": {raw}}}
	store := newFakeTradeStore()

	c := NewTradeCollector(tradeCfg(), fetcher, newFakeCatalog(eligibleMarket()), store, nil)
	c.now = func() time.Time { return now }

	c.Collect(context.Background())

	want := model.FallbackTradeID("0xc1", time.Unix(raw.Timestamp, 0).UTC(), "asset-9")
	if _, exists := store.rows[want]; !exists {
		t.Errorf("trade not stored under deterministic fallback id %s", want)
	}
}
