package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultGammaURL = "https://gamma-api.polymarket.com"
	DefaultDataURL  = "https://data-api.polymarket.com"

	DefaultAPITimeout = 15 * time.Second
	DefaultDBPort     = 5432
	DefaultDBSSLMode  = "prefer"
	DefaultMaxConns   = 10
	DefaultMinConns   = 2

	DefaultDiscoveryInterval = 6 * time.Hour
	DefaultTagSlug           = "politics"
	DefaultPageSize          = 100
	DefaultMinVolume         = 100_000

	DefaultSnapshotInterval = time.Minute
	DefaultBatchSize        = 10
	DefaultBatchPause       = 500 * time.Millisecond
	DefaultRequestTimeout   = 10 * time.Second

	DefaultTradeInterval  = 30 * time.Second
	DefaultTradeLookback  = 10 * time.Minute
	DefaultTradePageLimit = 500
	DefaultMinTradeUSD    = 10_000
	DefaultLargeTradeUSD  = 10_000
	DefaultWhaleTradeUSD  = 50_000

	DefaultRetentionInterval = time.Hour
	DefaultSnapshotWindow    = 7 * 24 * time.Hour
	DefaultTradeWindow       = 48 * time.Hour
	DefaultSweepTimeout      = time.Minute

	DefaultHealthPort = 8080
)

func (c *CollectorConfig) applyDefaults() {
	if c.Instance.LogLevel == "" {
		c.Instance.LogLevel = "info"
	}

	// API defaults
	if c.API.GammaURL == "" {
		c.API.GammaURL = DefaultGammaURL
	}
	if c.API.DataURL == "" {
		c.API.DataURL = DefaultDataURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}

	// Database defaults
	if c.Database.Port == 0 {
		c.Database.Port = DefaultDBPort
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = DefaultDBSSLMode
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = DefaultMaxConns
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = DefaultMinConns
	}

	// Discovery defaults
	if c.Discovery.Interval == 0 {
		c.Discovery.Interval = DefaultDiscoveryInterval
	}
	if c.Discovery.TagSlug == "" {
		c.Discovery.TagSlug = DefaultTagSlug
	}
	if c.Discovery.PageSize == 0 {
		c.Discovery.PageSize = DefaultPageSize
	}
	if c.Discovery.MinVolume == 0 {
		c.Discovery.MinVolume = DefaultMinVolume
	}
	if c.Discovery.Timeout == 0 {
		c.Discovery.Timeout = DefaultRequestTimeout
	}

	// Snapshot defaults
	if c.Snapshots.Interval == 0 {
		c.Snapshots.Interval = DefaultSnapshotInterval
	}
	if c.Snapshots.BatchSize == 0 {
		c.Snapshots.BatchSize = DefaultBatchSize
	}
	if c.Snapshots.BatchPause == 0 {
		c.Snapshots.BatchPause = DefaultBatchPause
	}
	if c.Snapshots.Timeout == 0 {
		c.Snapshots.Timeout = DefaultRequestTimeout
	}

	// Trade defaults
	if c.Trades.Interval == 0 {
		c.Trades.Interval = DefaultTradeInterval
	}
	if c.Trades.Lookback == 0 {
		c.Trades.Lookback = DefaultTradeLookback
	}
	if c.Trades.BatchSize == 0 {
		c.Trades.BatchSize = DefaultBatchSize
	}
	if c.Trades.BatchPause == 0 {
		c.Trades.BatchPause = DefaultBatchPause
	}
	if c.Trades.Timeout == 0 {
		c.Trades.Timeout = DefaultRequestTimeout
	}
	if c.Trades.PageLimit == 0 {
		c.Trades.PageLimit = DefaultTradePageLimit
	}
	if c.Trades.MinSizeUSD == 0 {
		c.Trades.MinSizeUSD = DefaultMinTradeUSD
	}
	if c.Trades.LargeUSD == 0 {
		c.Trades.LargeUSD = DefaultLargeTradeUSD
	}
	if c.Trades.WhaleUSD == 0 {
		c.Trades.WhaleUSD = DefaultWhaleTradeUSD
	}

	// Retention defaults
	if c.Retention.Interval == 0 {
		c.Retention.Interval = DefaultRetentionInterval
	}
	if c.Retention.SnapshotWindow == 0 {
		c.Retention.SnapshotWindow = DefaultSnapshotWindow
	}
	if c.Retention.TradeWindow == 0 {
		c.Retention.TradeWindow = DefaultTradeWindow
	}
	if c.Retention.Timeout == 0 {
		c.Retention.Timeout = DefaultSweepTimeout
	}

	// Health defaults
	if c.Health.Port == 0 {
		c.Health.Port = DefaultHealthPort
	}
}
