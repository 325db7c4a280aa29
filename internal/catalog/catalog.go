package catalog

import (
	"sync"

	"github.com/harpoon/collector/internal/model"
)

// Catalog is the shared, periodically-replaced set of tracked markets.
// All methods are safe for concurrent use.
type Catalog struct {
	mu      sync.RWMutex
	markets []model.Market
	byID    map[string]int // market id -> index into markets
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		byID: make(map[string]int),
	}
}

// Replace swaps in a new qualifying set. Condition ids already learned for
// surviving markets are carried forward when the incoming record lacks one.
func (c *Catalog) Replace(markets []model.Market) {
	next := make([]model.Market, len(markets))
	copy(next, markets)

	byID := make(map[string]int, len(next))

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range next {
		if next[i].ConditionID == "" {
			if prev, ok := c.byID[next[i].ID]; ok {
				next[i].ConditionID = c.markets[prev].ConditionID
			}
		}
		byID[next[i].ID] = i
	}

	c.markets = next
	c.byID = byID
}

// Markets returns a copy of the current set.
func (c *Catalog) Markets() []model.Market {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]model.Market, len(c.markets))
	copy(out, c.markets)
	return out
}

// Get returns the market with the given id.
func (c *Catalog) Get(marketID string) (model.Market, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.byID[marketID]
	if !ok {
		return model.Market{}, false
	}
	return c.markets[i], true
}

// Len returns the number of tracked markets.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.markets)
}

// SetConditionID records a condition id learned from a market detail record.
// A no-op when the market is no longer tracked.
func (c *Catalog) SetConditionID(marketID, conditionID string) {
	if conditionID == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if i, ok := c.byID[marketID]; ok {
		c.markets[i].ConditionID = conditionID
	}
}
