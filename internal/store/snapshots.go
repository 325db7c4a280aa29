package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/harpoon/collector/internal/model"
)

// InsertSnapshots writes one poll cycle's snapshots as a single batch.
// Re-observed (market_id, snapshot_time) pairs are ignored.
func (s *Store) InsertSnapshots(ctx context.Context, snapshots []model.Snapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, snap := range snapshots {
		batch.Queue(`
			INSERT INTO market_snapshots (market_id, question, snapshot_time, yes_price, no_price, spread, volume_24h, liquidity,
			                              price_change_5min, price_change_1h, price_change_24h, volume_change_24h)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (market_id, snapshot_time) DO NOTHING
		`, snap.MarketID, snap.Question, snap.SnapshotTime, snap.YesPrice, snap.NoPrice, snap.Spread, snap.Volume24h, snap.Liquidity,
			snap.PriceChange5Min, snap.PriceChange1H, snap.PriceChange24H, snap.VolumeChange24H)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range snapshots {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert snapshot: %w", err)
		}
	}

	return nil
}

// LatestSnapshotBefore returns the most recent snapshot for a market at or
// before t, or nil when none exists.
//
// Under replication lag this read can be stale; the only effect is a delta
// computed against an older prior, so staleness is tolerated rather than
// guarded against.
func (s *Store) LatestSnapshotBefore(ctx context.Context, marketID string, t time.Time) (*model.Snapshot, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT market_id, question, snapshot_time, yes_price, no_price, spread, volume_24h, liquidity,
		       price_change_5min, price_change_1h, price_change_24h, volume_change_24h
		FROM market_snapshots
		WHERE market_id = $1 AND snapshot_time <= $2
		ORDER BY snapshot_time DESC
		LIMIT 1
	`, marketID, t)

	var snap model.Snapshot
	err := row.Scan(&snap.MarketID, &snap.Question, &snap.SnapshotTime, &snap.YesPrice, &snap.NoPrice, &snap.Spread,
		&snap.Volume24h, &snap.Liquidity,
		&snap.PriceChange5Min, &snap.PriceChange1H, &snap.PriceChange24H, &snap.VolumeChange24H)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}

	return &snap, nil
}

// DeleteSnapshotsBefore removes snapshot rows older than the cutoff and
// returns the number deleted.
func (s *Store) DeleteSnapshotsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	ct, err := s.pool.Exec(ctx, `DELETE FROM market_snapshots WHERE snapshot_time < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete snapshots: %w", err)
	}
	return ct.RowsAffected(), nil
}
