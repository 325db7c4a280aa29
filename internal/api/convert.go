package api

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/harpoon/collector/internal/model"
)

var errNoPrices = errors.New("no usable outcome prices")

// OutcomePrices extracts (yes, no) prices from a market detail record.
//
// The primary representation is the outcomePrices field: a JSON array of
// decimal strings, itself encoded as a string. When that is absent or
// unparseable, fall back to the best bid/ask midpoint. Either path can fail
// on stale or zeroed records; callers treat the error as a validation skip.
func (m *APIMarket) OutcomePrices() (yes, no float64, err error) {
	if yes, no, ok := parseOutcomePrices(m.OutcomePricesRaw); ok {
		return yes, no, nil
	}

	// Fallback: midpoint of the YES book.
	if m.BestBid > 0 || m.BestAsk > 0 {
		mid := (m.BestBid + m.BestAsk) / 2
		if model.ValidPrice(mid) {
			return mid, 1 - mid, nil
		}
	}

	return 0, 0, errNoPrices
}

// parseOutcomePrices decodes the doubly-encoded price array.
// `"[\"0.45\", \"0.55\"]"` -> (0.45, 0.55, true)
func parseOutcomePrices(raw string) (yes, no float64, ok bool) {
	if raw == "" {
		return 0, 0, false
	}

	var prices []string
	if err := json.Unmarshal([]byte(raw), &prices); err != nil || len(prices) < 2 {
		return 0, 0, false
	}

	yes, err := strconv.ParseFloat(prices[0], 64)
	if err != nil {
		return 0, 0, false
	}
	no, err = strconv.ParseFloat(prices[1], 64)
	if err != nil {
		return 0, 0, false
	}

	if !model.ValidPrice(yes) || !model.ValidPrice(no) {
		return 0, 0, false
	}

	return yes, no, true
}

// Status maps the active/closed booleans onto the catalog status.
func (m *APIMarket) Status() string {
	if m.Closed || !m.Active {
		return model.StatusClosed
	}
	return model.StatusActive
}

// ToModel converts a nested listing market into a catalog market, attaching
// its parent event context.
func (m *APIMarket) ToModel(event APIEvent) model.Market {
	return model.Market{
		ID:          m.ID,
		ConditionID: m.ConditionID,
		Question:    m.Question,
		Description: m.Description,
		EventID:     event.ID,
		EventTitle:  event.Title,
		GroupTitle:  m.GroupItemTitle,
		Volume24h:   m.Volume24hr,
		Liquidity:   m.LiquidityNum,
		Status:      m.Status(),
	}
}
