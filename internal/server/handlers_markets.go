package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/coinview/coinview/internal/market"
)

func (s *Server) listMarkets(w http.ResponseWriter, r *http.Request) {
	assets, err := s.store.ListAssets(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if assets == nil {
		assets = []market.Asset{}
	}
	writeJSON(w, http.StatusOK, assets)
}

// refreshMarkets nudges every reference price and returns the new list,
// standing in for an upstream ticker feed.
func (s *Server) refreshMarkets(w http.ResponseWriter, r *http.Request) {
	if err := s.store.JitterPrices(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.listMarkets(w, r)
}

func (s *Server) getCandles(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	interval := market.Interval(chi.URLParam(r, "interval"))

	candles, err := s.store.Candles(r.Context(), ticker, interval)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	if candles == nil {
		candles = []market.Candle{}
	}
	writeJSON(w, http.StatusOK, candles)
}
