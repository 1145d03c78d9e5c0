package server

import (
	"net/http"

	"github.com/coinview/coinview/internal/market"
)

func (s *Server) getWallet(w http.ResponseWriter, r *http.Request) {
	holdings, err := s.store.ListHoldings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if holdings == nil {
		holdings = []market.Holding{}
	}
	writeJSON(w, http.StatusOK, holdings)
}
