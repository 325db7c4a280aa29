package config

import "time"

// CollectorConfig is the root configuration for a collector instance.
type CollectorConfig struct {
	Instance  InstanceConfig  `yaml:"instance"`
	API       APIConfig       `yaml:"api"`
	Database  DBConfig        `yaml:"database"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	Snapshots SnapshotsConfig `yaml:"snapshots"`
	Trades    TradesConfig    `yaml:"trades"`
	Retention RetentionConfig `yaml:"retention"`
	Health    HealthConfig    `yaml:"health"`
}

// InstanceConfig identifies this collector.
type InstanceConfig struct {
	ID       string `yaml:"id"`
	LogLevel string `yaml:"log_level"`
}

// APIConfig holds upstream market-data API settings.
type APIConfig struct {
	GammaURL string        `yaml:"gamma_url"` // Event/market listing and detail
	DataURL  string        `yaml:"data_url"`  // Trade listing
	Timeout  time.Duration `yaml:"timeout"`
}

// DBConfig holds the persistent store connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// DiscoveryConfig holds market discovery settings.
type DiscoveryConfig struct {
	Interval  time.Duration `yaml:"interval"`
	TagSlug   string        `yaml:"tag_slug"`
	PageSize  int           `yaml:"page_size"`
	MinVolume float64       `yaml:"min_volume"` // Minimum 24h volume to track a market
	Timeout   time.Duration `yaml:"timeout"`    // Catalog persistence timeout
}

// SnapshotsConfig holds snapshot poller settings.
type SnapshotsConfig struct {
	Interval   time.Duration `yaml:"interval"`
	BatchSize  int           `yaml:"batch_size"`  // Markets fetched concurrently per batch
	BatchPause time.Duration `yaml:"batch_pause"` // Pause between batches
	Timeout    time.Duration `yaml:"timeout"`     // Per-request timeout
}

// TradesConfig holds trade poller settings and monetary thresholds.
type TradesConfig struct {
	Interval   time.Duration `yaml:"interval"`
	Lookback   time.Duration `yaml:"lookback"` // Fetch window; longer than Interval to survive missed ticks
	BatchSize  int           `yaml:"batch_size"`
	BatchPause time.Duration `yaml:"batch_pause"`
	Timeout    time.Duration `yaml:"timeout"`
	PageLimit  int           `yaml:"page_limit"`

	MinSizeUSD float64 `yaml:"min_size_usd"` // Minimum dollar value to persist a trade
	LargeUSD   float64 `yaml:"large_usd"`    // is_large_trade threshold
	WhaleUSD   float64 `yaml:"whale_usd"`    // is_whale_trade threshold
}

// RetentionConfig holds sweep settings.
type RetentionConfig struct {
	Interval       time.Duration `yaml:"interval"`
	SnapshotWindow time.Duration `yaml:"snapshot_window"` // Snapshots older than this are deleted
	TradeWindow    time.Duration `yaml:"trade_window"`    // Trades older than this are deleted
	Timeout        time.Duration `yaml:"timeout"`         // Per-delete timeout
}

// HealthConfig holds the health endpoint settings.
type HealthConfig struct {
	Port int `yaml:"port"`
}
