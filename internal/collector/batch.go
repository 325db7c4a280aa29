package collector

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/harpoon/collector/internal/model"
)

// forEachBatch runs fn for every market, size at a time, pausing between
// batches. fn contains its own failure handling; a batch always drains fully
// unless the context is cancelled.
func forEachBatch(ctx context.Context, markets []model.Market, size int, pause time.Duration, fn func(context.Context, model.Market)) {
	if size < 1 {
		size = 1
	}

	for start := 0; start < len(markets); start += size {
		if ctx.Err() != nil {
			return
		}

		end := min(start+size, len(markets))

		g, gctx := errgroup.WithContext(ctx)
		for _, m := range markets[start:end] {
			g.Go(func() error {
				fn(gctx, m)
				return nil
			})
		}
		g.Wait()

		if end < len(markets) && pause > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(pause):
			}
		}
	}
}
