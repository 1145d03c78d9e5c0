package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/coinview/coinview/internal/market"
	"github.com/coinview/coinview/internal/store"
)

type placeOrderRequest struct {
	Direction     string          `json:"direction"`
	Type          string          `json:"type"`
	PrimaryTicker string          `json:"primary_ticker"`
	CounterTicker string          `json:"counter_ticker"`
	Quantity      decimal.Decimal `json:"quantity"`
	TriggerPrice  decimal.Decimal `json:"trigger_price"`
	LimitPrice    decimal.Decimal `json:"limit_price"`
}

type cancelOrderResponse struct {
	Message string          `json:"message"`
	Holding *market.Holding `json:"holding,omitempty"`
}

func (s *Server) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	order, err := s.store.PlaceOrder(r.Context(), &store.PlaceOrderRequest{
		Direction:     market.Direction(req.Direction),
		Type:          market.OrderType(req.Type),
		PrimaryTicker: req.PrimaryTicker,
		CounterTicker: req.CounterTicker,
		Quantity:      req.Quantity,
		TriggerPrice:  req.TriggerPrice,
		LimitPrice:    req.LimitPrice,
	})
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (s *Server) listOpenOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.store.ListOpenOrders(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if orders == nil {
		orders = []market.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (s *Server) cancelOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	holding, err := s.store.CancelOrder(r.Context(), id)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cancelOrderResponse{
		Message: "order cancelled",
		Holding: holding,
	})
}

func (s *Server) listHistory(w http.ResponseWriter, r *http.Request) {
	trades, err := s.store.ListTrades(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if trades == nil {
		trades = []market.Trade{}
	}
	writeJSON(w, http.StatusOK, trades)
}
