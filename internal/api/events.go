package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// ListEvents fetches a single page of events.
func (c *Client) ListEvents(ctx context.Context, opts ListEventsOptions) ([]APIEvent, error) {
	query := url.Values{}
	query.Set("closed", strconv.FormatBool(opts.Closed))

	if opts.TagSlug != "" {
		query.Set("tag_slug", opts.TagSlug)
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		query.Set("offset", strconv.Itoa(opts.Offset))
	}

	var events []APIEvent
	if err := c.getGamma(ctx, "/events", query, &events); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	return events, nil
}
