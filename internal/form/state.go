// Package form implements the trading order form: the controller that keeps
// the direction/order-type/amount-mode tuple consistent, the selector
// controls it repopulates, and the derived text shown next to them. It knows
// nothing about any UI toolkit; the TUI layer renders whatever this package
// reports and forwards user events back into it.
package form

import (
	"github.com/shopspring/decimal"

	"github.com/coinview/coinview/internal/market"
)

// MarketState is the snapshot of market reference data and wallet holdings
// the form reads from. It is owned by whoever polls the backend and is
// handed to the Controller by reference, never kept as package state.
//
// All mutation is wholesale replace or a targeted upsert by ticker; callers
// on the UI event loop never see a half-updated snapshot.
type MarketState struct {
	assets   []market.Asset
	holdings []market.Holding
	ready    bool
}

func NewMarketState() *MarketState {
	return &MarketState{}
}

// SetAssets replaces the tradable-asset list.
func (s *MarketState) SetAssets(assets []market.Asset) {
	s.assets = assets
}

// SetHoldings replaces the wallet snapshot and marks it ready. An empty
// slice is a valid snapshot ("user owns nothing"), distinct from the
// snapshot never having arrived.
func (s *MarketState) SetHoldings(holdings []market.Holding) {
	s.holdings = holdings
	s.ready = true
}

// UpsertHolding replaces a single wallet entry by ticker, or appends it.
// Used after actions like order cancellation where the server returns the
// one holding it touched.
func (s *MarketState) UpsertHolding(h market.Holding) {
	for i := range s.holdings {
		if s.holdings[i].Ticker == h.Ticker {
			s.holdings[i] = h
			return
		}
	}
	s.holdings = append(s.holdings, h)
}

// Ready reports whether a wallet snapshot has arrived at least once.
func (s *MarketState) Ready() bool {
	return s.ready
}

func (s *MarketState) Assets() []market.Asset {
	return s.assets
}

func (s *MarketState) Holdings() []market.Holding {
	return s.holdings
}

// HoldingByTicker looks up one wallet entry.
func (s *MarketState) HoldingByTicker(ticker string) (market.Holding, bool) {
	for _, h := range s.holdings {
		if h.Ticker == ticker {
			return h, true
		}
	}
	return market.Holding{}, false
}

// OwnedAssets returns the asset records for everything the wallet holds, in
// wallet order. Assets the reference list does not know about are carried
// with the ticker as display name so a selector can still offer them.
func (s *MarketState) OwnedAssets() []market.Asset {
	owned := make([]market.Asset, 0, len(s.holdings))
	for _, h := range s.holdings {
		if a, ok := s.AssetByTicker(h.Ticker); ok {
			owned = append(owned, a)
			continue
		}
		owned = append(owned, market.Asset{Ticker: h.Ticker, Name: h.Ticker})
	}
	return owned
}

func (s *MarketState) AssetByTicker(ticker string) (market.Asset, bool) {
	for _, a := range s.assets {
		if a.Ticker == ticker {
			return a, true
		}
	}
	return market.Asset{}, false
}

// PriceByTicker returns the reference USD price for a ticker.
func (s *MarketState) PriceByTicker(ticker string) (decimal.Decimal, bool) {
	a, ok := s.AssetByTicker(ticker)
	if !ok {
		return decimal.Decimal{}, false
	}
	return a.PriceUSD, true
}
