package form

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/coinview/coinview/internal/market"
)

func TestReconcileBalanceDisplay(t *testing.T) {
	tests := []struct {
		name     string
		assets   []market.Asset
		holdings []market.Holding // nil = snapshot never arrived
		setup    func(c *Controller)
		want     string
	}{
		{
			name:     "buy mode shows pay asset balance",
			assets:   assets("BTC", "ETH", "USDT"),
			holdings: []market.Holding{holding("USDT", "1250.5")},
			want:     "1250.50 USDT",
		},
		{
			name:     "sell mode shows primary asset balance",
			assets:   assets("BTC", "ETH", "USDT"),
			holdings: []market.Holding{holding("BTC", "0.25"), holding("USDT", "10")},
			setup:    func(c *Controller) { c.SetDirection(market.DirectionSell) },
			want:     "0.25 BTC",
		},
		{
			name:     "snapshot not ready shows loading",
			assets:   assets("BTC", "ETH", "USDT"),
			holdings: nil,
			setup:    func(c *Controller) { c.SetDirection(market.DirectionSell) },
			want:     balanceLoading,
		},
		{
			name:     "no ticker selected shows placeholder",
			assets:   nil,
			holdings: []market.Holding{},
			want:     balanceNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, _ := newTestController(t, tt.assets, tt.holdings)
			if tt.setup != nil {
				tt.setup(c)
			}
			if got := c.Reconcile().Balance; got != tt.want {
				t.Errorf("Balance = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReconcileBalanceAfterSnapshotDropsAsset(t *testing.T) {
	// A poll can replace the wallet snapshot between selector syncs; a pay
	// asset that vanished from the snapshot reads as zero, not an error.
	st := NewMarketState()
	st.SetAssets(assets("BTC", "ETH", "USDT"))
	st.SetHoldings([]market.Holding{holding("USDT", "10")})

	c := NewController(Config{State: st, InitialTicker: "BTC", InitialInterval: market.Interval1d})
	c.Init()
	if c.PayTicker() != "USDT" {
		t.Fatalf("pay ticker = %q, want USDT", c.PayTicker())
	}

	st.SetHoldings([]market.Holding{holding("ETH", "1")})
	if got := c.Reconcile().Balance; got != "0.00 USDT" {
		t.Errorf("Balance = %q, want %q", got, "0.00 USDT")
	}
}

func TestReconcileAmountLabels(t *testing.T) {
	c, _, _ := newTestController(t, defaultAssets(), defaultHoldings())

	l := c.Reconcile()
	if l.Amount != "Quantity (BTC)" {
		t.Errorf("Amount = %q, want %q", l.Amount, "Quantity (BTC)")
	}
	if l.QuantityMode != "Quantity (BTC)" || l.TotalMode != "Total (USDT)" {
		t.Errorf("mode labels = %q / %q", l.QuantityMode, l.TotalMode)
	}

	c.SetAmountMode(market.ModeTotal)
	if got := c.Reconcile().Amount; got != "Total (USDT)" {
		t.Errorf("Amount in total mode = %q, want %q", got, "Total (USDT)")
	}

	// With nothing selectable the labels fall back to neutral placeholders
	// instead of rendering empty parentheses.
	empty, _, _ := newTestController(t, nil, []market.Holding{})
	l = empty.Reconcile()
	if l.QuantityMode != "Quantity (Crypto)" || l.TotalMode != "Total (USDT)" {
		t.Errorf("placeholder labels = %q / %q", l.QuantityMode, l.TotalMode)
	}
}

func TestSliderAmountZeroSafety(t *testing.T) {
	// The slider must return exactly zero, never an error value, whenever
	// the snapshot is missing or no ticker resolves.
	tests := []struct {
		name     string
		assets   []market.Asset
		holdings []market.Holding
	}{
		{"snapshot never arrived", assets("BTC", "ETH", "USDT"), nil},
		{"empty wallet", assets("BTC", "ETH", "USDT"), []market.Holding{}},
		{"no ticker selected", nil, []market.Holding{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, _ := newTestController(t, tt.assets, tt.holdings)
			for _, pct := range []int{0, 1, 25, 50, 100} {
				if got := c.SliderAmount(pct); !got.Equal(decimal.Zero) {
					t.Errorf("SliderAmount(%d) = %s, want 0", pct, got)
				}
			}
		})
	}
}

func TestSliderAmountComputation(t *testing.T) {
	c, _, _ := newTestController(t, defaultAssets(), []market.Holding{holding("USDT", "200")})

	if got := c.SliderAmount(50); !got.Equal(decimal.NewFromInt(100)) {
		t.Errorf("SliderAmount(50) = %s, want 100", got)
	}
	if got := c.SliderAmount(100); !got.Equal(decimal.NewFromInt(200)) {
		t.Errorf("SliderAmount(100) = %s, want 200", got)
	}
	// Out-of-range input clamps rather than extrapolating.
	if got := c.SliderAmount(250); !got.Equal(decimal.NewFromInt(200)) {
		t.Errorf("SliderAmount(250) = %s, want 200", got)
	}
	if got := c.SliderAmount(-5); !got.Equal(decimal.Zero) {
		t.Errorf("SliderAmount(-5) = %s, want 0", got)
	}
}

func TestSliderAmountMonotonic(t *testing.T) {
	c, _, _ := newTestController(t, defaultAssets(), []market.Holding{holding("USDT", "123.456789")})

	prev := decimal.Zero
	for pct := 0; pct <= 100; pct++ {
		got := c.SliderAmount(pct)
		if got.LessThan(prev) {
			t.Fatalf("SliderAmount not monotonic: f(%d) = %s < f(%d) = %s", pct, got, pct-1, prev)
		}
		prev = got
	}
}
