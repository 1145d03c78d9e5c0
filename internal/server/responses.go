package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/coinview/coinview/internal/market"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func mapError(err error) int {
	switch {
	case errors.Is(err, market.ErrAssetNotFound),
		errors.Is(err, market.ErrOrderNotFound),
		errors.Is(err, market.ErrHoldingNotFound):
		return http.StatusNotFound
	case errors.Is(err, market.ErrInvalidDirection),
		errors.Is(err, market.ErrInvalidOrderType),
		errors.Is(err, market.ErrInvalidInterval),
		errors.Is(err, market.ErrInvalidQuantity),
		errors.Is(err, market.ErrMissingPrice),
		errors.Is(err, market.ErrSameAssetPair):
		return http.StatusBadRequest
	case errors.Is(err, market.ErrInsufficientFunds),
		errors.Is(err, market.ErrOrderNotOpen):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
