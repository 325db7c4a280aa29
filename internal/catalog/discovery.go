package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/harpoon/collector/internal/api"
	"github.com/harpoon/collector/internal/model"
)

// EventLister pages the upstream tagged event listing.
type EventLister interface {
	ListEvents(ctx context.Context, opts api.ListEventsOptions) ([]api.APIEvent, error)
}

// MarketWriter persists the qualifying set wholesale.
type MarketWriter interface {
	ReplaceMarkets(ctx context.Context, markets []model.Market) error
}

// Config holds discovery settings.
type Config struct {
	TagSlug   string
	PageSize  int
	MinVolume float64
	Timeout   time.Duration // Bounds the catalog persistence write
}

// Refresher discovers the qualifying market set and replaces the catalog.
type Refresher struct {
	cfg     Config
	client  EventLister
	catalog *Catalog
	store   MarketWriter
	logger  *slog.Logger
}

// NewRefresher creates a Refresher. store may be nil when persistence of the
// catalog is not wanted.
func NewRefresher(cfg Config, client EventLister, catalog *Catalog, store MarketWriter, logger *slog.Logger) *Refresher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Refresher{
		cfg:     cfg,
		client:  client,
		catalog: catalog,
		store:   store,
		logger:  logger,
	}
}

// Refresh pages the active tagged event listing until an empty page, flattens
// nested markets, filters them, and swaps the catalog. A page failure stops
// paging; events accumulated so far are still processed. When the very first
// page fails there is nothing to process and the previous set is kept.
func (r *Refresher) Refresh(ctx context.Context) ([]model.Market, error) {
	start := time.Now()

	var events []api.APIEvent
	for offset := 0; ; offset += r.cfg.PageSize {
		page, err := r.client.ListEvents(ctx, api.ListEventsOptions{
			TagSlug: r.cfg.TagSlug,
			Limit:   r.cfg.PageSize,
			Offset:  offset,
			Closed:  false,
		})
		if err != nil {
			if len(events) == 0 {
				return nil, err
			}
			r.logger.Warn("event page fetch failed, processing accumulated events",
				"offset", offset,
				"events", len(events),
				"err", err,
			)
			break
		}
		if len(page) == 0 {
			break
		}
		events = append(events, page...)
	}

	var qualifying []model.Market
	var candidates int
	for _, event := range events {
		for i := range event.Markets {
			candidates++
			m := event.Markets[i].ToModel(event)
			if qualifies(m, r.cfg.MinVolume) {
				qualifying = append(qualifying, m)
			}
		}
	}

	r.catalog.Replace(qualifying)

	if r.store != nil {
		writeCtx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
		if err := r.store.ReplaceMarkets(writeCtx, r.catalog.Markets()); err != nil {
			r.logger.Error("persist market catalog failed", "err", err)
		}
		cancel()
	}

	r.logger.Info("discovery cycle complete",
		"events", len(events),
		"candidates", candidates,
		"qualifying", len(qualifying),
		"duration", time.Since(start),
	)

	return qualifying, nil
}
