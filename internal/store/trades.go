package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/harpoon/collector/internal/model"
)

// InsertTrades inserts trades with conflict-ignore semantics on the trade id.
// A duplicate delivery (overlapping lookback, retried cycle) is a successful
// no-op, counted in conflicts.
func (s *Store) InsertTrades(ctx context.Context, trades []model.Trade) (inserted, conflicts int, err error) {
	if len(trades) == 0 {
		return 0, 0, nil
	}

	batch := &pgx.Batch{}
	for _, tr := range trades {
		batch.Queue(`
			INSERT INTO trades (id, market_id, side, outcome, price, shares, usd, trader, wallet, timestamp, is_large_trade, is_whale_trade)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (id) DO NOTHING
		`, tr.ID, tr.MarketID, tr.Side, tr.Outcome, tr.Price, tr.Shares, tr.USD, tr.Trader, tr.Wallet, tr.Timestamp, tr.IsLargeTrade, tr.IsWhaleTrade)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range trades {
		ct, err := results.Exec()
		if err != nil {
			return inserted, conflicts, fmt.Errorf("insert trade: %w", err)
		}
		if ct.RowsAffected() == 0 {
			conflicts++
		} else {
			inserted++
		}
	}

	return inserted, conflicts, nil
}

// LatestTradeTime returns the timestamp of the most recent stored trade for
// a market: the de facto ingestion watermark. The zero time means no trades
// are stored yet.
//
// The watermark is re-derived from the ledger rather than persisted as a
// cursor; a stale read only causes redundant fetches that the conflict-ignore
// insert absorbs.
func (s *Store) LatestTradeTime(ctx context.Context, marketID string) (time.Time, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT timestamp
		FROM trades
		WHERE market_id = $1
		ORDER BY timestamp DESC
		LIMIT 1
	`, marketID)

	var ts time.Time
	err := row.Scan(&ts)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("query latest trade time: %w", err)
	}

	return ts, nil
}

// DeleteTradesBefore removes trade rows older than the cutoff and returns
// the number deleted.
func (s *Store) DeleteTradesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	ct, err := s.pool.Exec(ctx, `DELETE FROM trades WHERE timestamp < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete trades: %w", err)
	}
	return ct.RowsAffected(), nil
}
