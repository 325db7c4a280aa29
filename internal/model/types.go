package model

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Market statuses.
const (
	StatusActive = "active"
	StatusClosed = "closed"
)

// Trade sides as reported upstream.
const (
	SideBuy  = "BUY"
	SideSell = "SELL"
)

// tradeNamespace seeds deterministic trade IDs for records that arrive
// without a transaction hash. Must never change: the derived IDs are the
// dedup keys in the trade ledger.
var tradeNamespace = uuid.MustParse("6ba7b812-9dad-11d1-80b4-00c04fd430c8")

// -----------------------------------------------------------------------------
// Catalog Types
// -----------------------------------------------------------------------------

// Market is one tracked instrument from the discovery cycle.
type Market struct {
	ID          string // Primary key (upstream market id)
	ConditionID string // Secondary key required for trade queries; may lag behind ID
	Question    string // Market question text
	Description string // Longer description, used for keyword filtering
	EventID     string // Parent event id
	EventTitle  string // Parent event title
	GroupTitle  string // Group item label within the event, if any
	Volume24h   float64
	Liquidity   float64
	Status      string // StatusActive or StatusClosed
}

// TradeEligible reports whether the market can be polled for trades.
// Trade queries require the condition id, which is learned by the snapshot
// path and may not be known yet.
func (m Market) TradeEligible() bool {
	return m.ConditionID != ""
}

// -----------------------------------------------------------------------------
// Time-Series Types
// -----------------------------------------------------------------------------

// Snapshot is one point-in-time observation of a market's price state.
// Rows are append-only, keyed by (MarketID, SnapshotTime).
type Snapshot struct {
	MarketID     string
	Question     string
	SnapshotTime time.Time
	YesPrice     float64 // [0, 1]
	NoPrice      float64 // [0, 1]
	Spread       float64 // |YesPrice - NoPrice|
	Volume24h    float64
	Liquidity    float64

	// Deltas against prior snapshots; nil until a prior snapshot exists.
	PriceChange5Min *float64
	PriceChange1H   *float64
	PriceChange24H  *float64
	VolumeChange24H *float64
}

// NewSnapshot builds a snapshot for a market, deriving the spread.
func NewSnapshot(m Market, at time.Time, yesPrice, noPrice float64) Snapshot {
	return Snapshot{
		MarketID:     m.ID,
		Question:     m.Question,
		SnapshotTime: at.UTC(),
		YesPrice:     yesPrice,
		NoPrice:      noPrice,
		Spread:       math.Abs(yesPrice - noPrice),
		Volume24h:    m.Volume24h,
		Liquidity:    m.Liquidity,
	}
}

// Trade is one executed transaction. Rows are immutable and deduplicated by ID.
type Trade struct {
	ID       string // Transaction hash, or deterministic UUID fallback
	MarketID string
	Side     string  // SideBuy or SideSell, as reported
	Outcome  string  // Outcome label as reported; attribution not interpreted
	Price    float64 // Per-share price in [0, 1]
	Shares   float64 // Raw position size in shares
	USD      float64 // Shares * Price; never the raw upstream size field
	Trader   string  // Optional username
	Wallet   string  // Optional wallet address

	Timestamp time.Time

	IsLargeTrade bool // USD >= configured large threshold
	IsWhaleTrade bool // USD >= configured whale threshold
}

// NewTrade derives the stored trade from raw upstream fields.
//
// The upstream size field denotes shares, not currency. The dollar exposure
// is always shares*price; at prices far from 1.0 the raw size overstates the
// trade by orders of magnitude.
func NewTrade(id, marketID, side, outcome string, shares, price float64, ts time.Time, largeUSD, whaleUSD float64) Trade {
	usd := shares * price
	return Trade{
		ID:           id,
		MarketID:     marketID,
		Side:         side,
		Outcome:      outcome,
		Price:        price,
		Shares:       shares,
		USD:          usd,
		Timestamp:    ts.UTC(),
		IsLargeTrade: usd >= largeUSD,
		IsWhaleTrade: usd >= whaleUSD,
	}
}

// FallbackTradeID derives a stable identifier for a transaction that arrives
// without a hash. The same market/timestamp/asset triple always maps to the
// same ID, so re-observing the record stays idempotent.
func FallbackTradeID(conditionID string, ts time.Time, asset string) string {
	composite := fmt.Sprintf("%s|%d|%s", conditionID, ts.UTC().UnixMilli(), asset)
	return uuid.NewSHA1(tradeNamespace, []byte(composite)).String()
}

// ValidPrice reports whether p is a usable per-share price.
func ValidPrice(p float64) bool {
	return !math.IsNaN(p) && p > 0 && p <= 1
}
