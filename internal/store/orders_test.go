package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/coinview/coinview/internal/market"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestMarketOrderExecutesImmediately(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Seed wallet holds 25000 USDT; BTC is priced at 60000.
	order, err := s.PlaceOrder(ctx, &PlaceOrderRequest{
		Direction:     market.DirectionBuy,
		Type:          market.TypeMarket,
		PrimaryTicker: "BTC",
		CounterTicker: "USDT",
		Quantity:      dec("0.1"),
	})
	if err != nil {
		t.Fatalf("place market order: %v", err)
	}
	if order.Status != market.StatusFilled {
		t.Fatalf("status = %q, want filled", order.Status)
	}

	usdt, err := s.GetHolding(ctx, "USDT")
	if err != nil {
		t.Fatalf("get USDT holding: %v", err)
	}
	if !usdt.Available.Equal(dec("19000")) {
		t.Errorf("USDT available = %s, want 19000", usdt.Available)
	}
	btc, err := s.GetHolding(ctx, "BTC")
	if err != nil {
		t.Fatalf("get BTC holding: %v", err)
	}
	if !btc.Available.Equal(dec("0.6")) {
		t.Errorf("BTC available = %s, want 0.6", btc.Available)
	}

	trades, err := s.ListTrades(ctx)
	if err != nil {
		t.Fatalf("list trades: %v", err)
	}
	if len(trades) != 1 {
		t.Fatalf("got %d trades, want 1", len(trades))
	}
	if !trades[0].TotalUSD.Equal(dec("6000")) {
		t.Errorf("trade total = %s, want 6000", trades[0].TotalUSD)
	}
	if trades[0].TotalUSDFormatted != "$6000.00" {
		t.Errorf("trade total formatted = %q", trades[0].TotalUSDFormatted)
	}
	if trades[0].Pair != "BTC/USDT" {
		t.Errorf("trade pair = %q", trades[0].Pair)
	}
}

func TestLimitOrderReservesAndCancelReleases(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	order, err := s.PlaceOrder(ctx, &PlaceOrderRequest{
		Direction:     market.DirectionBuy,
		Type:          market.TypeLimit,
		PrimaryTicker: "BTC",
		CounterTicker: "USDT",
		Quantity:      dec("0.1"),
		TriggerPrice:  dec("50000"),
	})
	if err != nil {
		t.Fatalf("place limit order: %v", err)
	}
	if order.Status != market.StatusOpen {
		t.Fatalf("status = %q, want open", order.Status)
	}

	usdt, err := s.GetHolding(ctx, "USDT")
	if err != nil {
		t.Fatalf("get holding: %v", err)
	}
	if !usdt.Available.Equal(dec("20000")) || !usdt.Reserved.Equal(dec("5000")) {
		t.Fatalf("after reserve: available = %s, reserved = %s", usdt.Available, usdt.Reserved)
	}

	open, err := s.ListOpenOrders(ctx)
	if err != nil {
		t.Fatalf("list open orders: %v", err)
	}
	if len(open) != 1 || open[0].ID != order.ID {
		t.Fatalf("open orders = %+v, want the placed order", open)
	}

	updated, err := s.CancelOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("cancel order: %v", err)
	}
	if updated.Ticker != "USDT" {
		t.Errorf("updated holding ticker = %q, want USDT", updated.Ticker)
	}
	if !updated.Available.Equal(dec("25000")) || !updated.Reserved.Equal(dec("0")) {
		t.Errorf("after release: available = %s, reserved = %s", updated.Available, updated.Reserved)
	}

	open, err = s.ListOpenOrders(ctx)
	if err != nil {
		t.Fatalf("list open orders: %v", err)
	}
	if len(open) != 0 {
		t.Errorf("got %d open orders after cancel, want 0", len(open))
	}

	if _, err := s.CancelOrder(ctx, order.ID); !errors.Is(err, market.ErrOrderNotOpen) {
		t.Errorf("second cancel err = %v, want ErrOrderNotOpen", err)
	}
}

func TestSellLimitOrderReservesPrimary(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.PlaceOrder(ctx, &PlaceOrderRequest{
		Direction:     market.DirectionSell,
		Type:          market.TypeLimit,
		PrimaryTicker: "BTC",
		CounterTicker: "USDT",
		Quantity:      dec("0.2"),
		TriggerPrice:  dec("70000"),
	}); err != nil {
		t.Fatalf("place sell limit order: %v", err)
	}

	btc, err := s.GetHolding(ctx, "BTC")
	if err != nil {
		t.Fatalf("get holding: %v", err)
	}
	if !btc.Available.Equal(dec("0.3")) || !btc.Reserved.Equal(dec("0.2")) {
		t.Errorf("after reserve: available = %s, reserved = %s", btc.Available, btc.Reserved)
	}
}

func TestPlaceOrderValidation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  PlaceOrderRequest
		want error
	}{
		{
			name: "unknown direction",
			req:  PlaceOrderRequest{Direction: "short", Type: market.TypeMarket, PrimaryTicker: "BTC", CounterTicker: "USDT", Quantity: dec("1")},
			want: market.ErrInvalidDirection,
		},
		{
			name: "unknown order type",
			req:  PlaceOrderRequest{Direction: market.DirectionBuy, Type: "trailing", PrimaryTicker: "BTC", CounterTicker: "USDT", Quantity: dec("1")},
			want: market.ErrInvalidOrderType,
		},
		{
			name: "same asset on both sides",
			req:  PlaceOrderRequest{Direction: market.DirectionBuy, Type: market.TypeMarket, PrimaryTicker: "BTC", CounterTicker: "BTC", Quantity: dec("1")},
			want: market.ErrSameAssetPair,
		},
		{
			name: "zero quantity",
			req:  PlaceOrderRequest{Direction: market.DirectionBuy, Type: market.TypeMarket, PrimaryTicker: "BTC", CounterTicker: "USDT", Quantity: decimal.Zero},
			want: market.ErrInvalidQuantity,
		},
		{
			name: "limit without price",
			req:  PlaceOrderRequest{Direction: market.DirectionBuy, Type: market.TypeLimit, PrimaryTicker: "BTC", CounterTicker: "USDT", Quantity: dec("1")},
			want: market.ErrMissingPrice,
		},
		{
			name: "stop-limit without limit price",
			req:  PlaceOrderRequest{Direction: market.DirectionBuy, Type: market.TypeStopLimit, PrimaryTicker: "BTC", CounterTicker: "USDT", Quantity: dec("1"), TriggerPrice: dec("50000")},
			want: market.ErrMissingPrice,
		},
		{
			name: "unknown asset",
			req:  PlaceOrderRequest{Direction: market.DirectionBuy, Type: market.TypeMarket, PrimaryTicker: "NOPE", CounterTicker: "USDT", Quantity: dec("1")},
			want: market.ErrAssetNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.PlaceOrder(ctx, &tt.req)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestInsufficientFundsRejectsOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.PlaceOrder(ctx, &PlaceOrderRequest{
		Direction:     market.DirectionBuy,
		Type:          market.TypeMarket,
		PrimaryTicker: "BTC",
		CounterTicker: "USDT",
		Quantity:      dec("10"),
	})
	if !errors.Is(err, market.ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}

	// The failed order must not leave a partial balance change behind.
	usdt, err := s.GetHolding(ctx, "USDT")
	if err != nil {
		t.Fatalf("get holding: %v", err)
	}
	if !usdt.Available.Equal(dec("25000")) {
		t.Errorf("USDT available = %s, want untouched 25000", usdt.Available)
	}
}
