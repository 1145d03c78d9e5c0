// Package server exposes the exchange backend over a small JSON REST API.
package server

import (
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/coinview/coinview/internal/store"
)

type Server struct {
	store  *store.Store
	router chi.Router
	addr   string
	log    *logrus.Logger
}

func New(st *store.Store, addr string, log *logrus.Logger) *Server {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	s := &Server{store: st, router: r, addr: addr, log: log}

	r.Route("/api/v1", func(r chi.Router) {
		// Markets
		r.Get("/markets", s.listMarkets)
		r.Post("/markets/refresh", s.refreshMarkets)
		r.Get("/markets/{ticker}/candles/{interval}", s.getCandles)

		// Wallet
		r.Get("/wallet", s.getWallet)

		// Orders
		r.Post("/orders", s.placeOrder)
		r.Get("/orders", s.listOpenOrders)
		r.Post("/orders/{id}/cancel", s.cancelOrder)

		// Trade history
		r.Get("/history", s.listHistory)
	})

	return s
}

func (s *Server) ListenAndServe() error {
	s.log.WithField("addr", s.addr).Info("coinview server listening")
	return http.ListenAndServe(s.addr, s.router)
}

func (s *Server) Serve(ln net.Listener) error {
	s.log.WithField("addr", ln.Addr().String()).Info("coinview server listening")
	return http.Serve(ln, s.router)
}

func (s *Server) Handler() http.Handler {
	return s.router
}
