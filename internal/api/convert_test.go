package api

import (
	"math"
	"testing"

	"github.com/harpoon/collector/internal/model"
)

func TestOutcomePrices_Primary(t *testing.T) {
	m := APIMarket{OutcomePricesRaw: `["0.45", "0.55"]`}

	yes, no, err := m.OutcomePrices()
	if err != nil {
		t.Fatalf("OutcomePrices() error = %v", err)
	}
	if yes != 0.45 || no != 0.55 {
		t.Errorf("prices = (%f, %f), want (0.45, 0.55)", yes, no)
	}
}

func TestOutcomePrices_FallbackToMidpoint(t *testing.T) {
	tests := []struct {
		name string
		m    APIMarket
	}{
		{"missing primary", APIMarket{BestBid: 0.40, BestAsk: 0.44}},
		{"malformed primary", APIMarket{OutcomePricesRaw: `not json`, BestBid: 0.40, BestAsk: 0.44}},
		{"short primary", APIMarket{OutcomePricesRaw: `["0.45"]`, BestBid: 0.40, BestAsk: 0.44}},
		{"zero primary", APIMarket{OutcomePricesRaw: `["0", "0"]`, BestBid: 0.40, BestAsk: 0.44}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			yes, no, err := tt.m.OutcomePrices()
			if err != nil {
				t.Fatalf("OutcomePrices() error = %v", err)
			}
			if math.Abs(yes-0.42) > 1e-9 {
				t.Errorf("yes = %f, want midpoint 0.42", yes)
			}
			if math.Abs(no-0.58) > 1e-9 {
				t.Errorf("no = %f, want 0.58", no)
			}
		})
	}
}

func TestOutcomePrices_Unusable(t *testing.T) {
	tests := []struct {
		name string
		m    APIMarket
	}{
		{"nothing set", APIMarket{}},
		{"zero everywhere", APIMarket{OutcomePricesRaw: `["0", "0"]`}},
		{"out of range fallback", APIMarket{BestBid: 2.0, BestAsk: 2.4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := tt.m.OutcomePrices(); err == nil {
				t.Error("OutcomePrices() expected error, got nil")
			}
		})
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		m    APIMarket
		want string
	}{
		{"active", APIMarket{Active: true, Closed: false}, model.StatusActive},
		{"closed", APIMarket{Active: true, Closed: true}, model.StatusClosed},
		{"inactive", APIMarket{Active: false, Closed: false}, model.StatusClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.Status(); got != tt.want {
				t.Errorf("Status() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestToModel(t *testing.T) {
	event := APIEvent{ID: "ev-1", Title: "Fed decisions 2025"}
	m := APIMarket{
		ID:             "m-1",
		Question:       "Fed rate decision in December",
		Description:    "Resolves YES if...",
		ConditionID:    "0xcond",
		GroupItemTitle: "25 bps cut",
		Volume24hr:     150000,
		LiquidityNum:   4000,
		Active:         true,
	}

	got := m.ToModel(event)

	if got.ID != "m-1" || got.ConditionID != "0xcond" {
		t.Errorf("IDs = (%q, %q), want (m-1, 0xcond)", got.ID, got.ConditionID)
	}
	if got.EventID != "ev-1" || got.EventTitle != "Fed decisions 2025" {
		t.Errorf("event fields = (%q, %q)", got.EventID, got.EventTitle)
	}
	if got.Volume24h != 150000 {
		t.Errorf("Volume24h = %f, want 150000", got.Volume24h)
	}
	if got.Status != model.StatusActive {
		t.Errorf("Status = %q, want active", got.Status)
	}
}
