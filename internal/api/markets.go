package api

import (
	"context"
	"fmt"
)

// GetMarket fetches the current detail record for a single market.
// The detail record carries live prices, status, and the condition id
// required for trade queries.
func (c *Client) GetMarket(ctx context.Context, marketID string) (*APIMarket, error) {
	var market APIMarket
	if err := c.getGamma(ctx, "/markets/"+marketID, nil, &market); err != nil {
		return nil, fmt.Errorf("get market %s: %w", marketID, err)
	}
	return &market, nil
}
