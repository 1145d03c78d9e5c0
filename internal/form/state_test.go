package form

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/coinview/coinview/internal/market"
)

func TestMarketStateReady(t *testing.T) {
	st := NewMarketState()
	if st.Ready() {
		t.Error("fresh state should not be ready")
	}

	st.SetAssets(assets("BTC"))
	if st.Ready() {
		t.Error("asset data alone should not mark the wallet snapshot ready")
	}

	// An empty wallet is a valid snapshot, distinct from "never arrived".
	st.SetHoldings([]market.Holding{})
	if !st.Ready() {
		t.Error("an empty holdings snapshot should mark the state ready")
	}
}

func TestUpsertHolding(t *testing.T) {
	st := NewMarketState()
	st.SetHoldings([]market.Holding{
		holding("BTC", "1"),
		holding("USDT", "100"),
	})

	// Replace by ticker.
	st.UpsertHolding(holding("BTC", "2"))
	if len(st.Holdings()) != 2 {
		t.Fatalf("holdings = %d entries, want 2", len(st.Holdings()))
	}
	h, ok := st.HoldingByTicker("BTC")
	if !ok || !h.Available.Equal(decimal.NewFromInt(2)) {
		t.Errorf("BTC after upsert = %+v, want available 2", h)
	}

	// Append when absent.
	st.UpsertHolding(holding("ETH", "5"))
	if len(st.Holdings()) != 3 {
		t.Errorf("holdings = %d entries, want 3 after appending upsert", len(st.Holdings()))
	}
}

func TestOwnedAssetsCarryUnknownTickers(t *testing.T) {
	st := NewMarketState()
	st.SetAssets(assets("BTC"))
	st.SetHoldings([]market.Holding{
		holding("BTC", "1"),
		holding("DOGE", "1000"), // delisted: absent from reference data
	})

	owned := st.OwnedAssets()
	if len(owned) != 2 {
		t.Fatalf("owned assets = %d, want 2", len(owned))
	}
	if owned[1].Ticker != "DOGE" || owned[1].Name != "DOGE" {
		t.Errorf("unknown holding mapped to %+v, want ticker-as-name entry", owned[1])
	}
}

func TestPriceByTicker(t *testing.T) {
	st := NewMarketState()
	st.SetAssets([]market.Asset{
		{Ticker: "BTC", Name: "Bitcoin", PriceUSD: decimal.NewFromInt(60000)},
	})

	p, ok := st.PriceByTicker("BTC")
	if !ok || !p.Equal(decimal.NewFromInt(60000)) {
		t.Errorf("PriceByTicker(BTC) = %s, %v", p, ok)
	}
	if _, ok := st.PriceByTicker("ETH"); ok {
		t.Error("PriceByTicker of unknown ticker should report not found")
	}
}
