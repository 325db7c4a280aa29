package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
// Missing store credentials are fatal: the process must not start without
// a writable store.
func (c *CollectorConfig) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if err := c.Database.validate("database"); err != nil {
		return err
	}

	if c.Discovery.PageSize < 1 {
		return errors.New("discovery.page_size must be >= 1")
	}
	if c.Discovery.MinVolume < 0 {
		return errors.New("discovery.min_volume must be >= 0")
	}

	if c.Snapshots.BatchSize < 1 {
		return errors.New("snapshots.batch_size must be >= 1")
	}
	if c.Trades.BatchSize < 1 {
		return errors.New("trades.batch_size must be >= 1")
	}
	if c.Trades.Lookback <= c.Trades.Interval {
		return fmt.Errorf("trades.lookback (%s) must exceed trades.interval (%s)", c.Trades.Lookback, c.Trades.Interval)
	}
	if c.Trades.MinSizeUSD < 0 {
		return errors.New("trades.min_size_usd must be >= 0")
	}
	if c.Trades.WhaleUSD < c.Trades.LargeUSD {
		return fmt.Errorf("trades.whale_usd (%f) must be >= trades.large_usd (%f)", c.Trades.WhaleUSD, c.Trades.LargeUSD)
	}

	if c.Retention.SnapshotWindow <= 0 {
		return errors.New("retention.snapshot_window must be positive")
	}
	if c.Retention.TradeWindow <= 0 {
		return errors.New("retention.trade_window must be positive")
	}

	if c.Health.Port < 1 || c.Health.Port > 65535 {
		return fmt.Errorf("health.port must be between 1 and 65535, got %d", c.Health.Port)
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
