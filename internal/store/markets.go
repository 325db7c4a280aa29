package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/harpoon/collector/internal/model"
)

// ReplaceMarkets replaces the market catalog wholesale inside a transaction:
// readers see the old set or the new set, never a partial one.
func (s *Store) ReplaceMarkets(ctx context.Context, markets []model.Market) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM markets`); err != nil {
		return fmt.Errorf("clear markets: %w", err)
	}

	batch := &pgx.Batch{}
	for _, m := range markets {
		batch.Queue(`
			INSERT INTO markets (market_id, condition_id, question, description, event_id, event_title, group_title, volume_24h, liquidity, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, m.ID, m.ConditionID, m.Question, m.Description, m.EventID, m.EventTitle, m.GroupTitle, m.Volume24h, m.Liquidity, m.Status)
	}

	results := tx.SendBatch(ctx, batch)
	for range markets {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("insert market: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}

	return tx.Commit(ctx)
}
