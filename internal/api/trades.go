package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// ListTrades fetches transactions for a condition id with a lower-bound
// timestamp. The bound is a lookback window rather than an exact cursor:
// callers filter against their own watermark and rely on idempotent inserts
// for the overlap.
func (c *Client) ListTrades(ctx context.Context, conditionID string, after time.Time, limit int) ([]APITrade, error) {
	query := url.Values{}
	query.Set("market", conditionID)
	query.Set("takerOnly", "true")

	if !after.IsZero() {
		query.Set("after", strconv.FormatInt(after.Unix(), 10))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var trades []APITrade
	if err := c.getData(ctx, "/trades", query, &trades); err != nil {
		return nil, fmt.Errorf("list trades %s: %w", conditionID, err)
	}

	return trades, nil
}
