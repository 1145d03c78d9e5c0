package form

import (
	"github.com/shopspring/decimal"

	"github.com/coinview/coinview/internal/market"
)

// Labels is the derived, human-readable text of the form. It is recomputed
// from scratch on every call; nothing here caches.
type Labels struct {
	// Balance is the available balance line, e.g. "0.0042 BTC". "--" when
	// no ticker is selected, "loading…" until the first wallet snapshot.
	Balance string
	// Amount is the numeric-input label, "Quantity (BTC)" or "Total (USDT)".
	Amount string
	// QuantityMode and TotalMode caption the two amount-mode choices.
	QuantityMode string
	TotalMode    string
}

const (
	balanceNone    = "--"
	balanceLoading = "loading…"
)

// balanceTicker is the asset whose balance the form spends from: the pay
// asset when buying, the asset being sold when selling.
func (c *Controller) balanceTicker() string {
	if c.IsBuyMode() {
		return c.PayTicker()
	}
	return c.PrimaryTicker()
}

// Reconcile derives all form labels from the current selection and wallet
// snapshot. Degrades, never fails: a missing selection reads "--", a wallet
// snapshot that has not arrived yet reads "loading…", and an asset absent
// from the snapshot reads as a zero balance.
func (c *Controller) Reconcile() Labels {
	var l Labels

	ticker := c.balanceTicker()
	switch {
	case ticker == "":
		l.Balance = balanceNone
	case !c.state.Ready():
		l.Balance = balanceLoading
	default:
		if h, ok := c.state.HoldingByTicker(ticker); ok {
			l.Balance = h.AvailableFormatted + " " + ticker
		} else {
			l.Balance = "0.00 " + ticker
		}
	}

	primary := orPlaceholder(c.PrimaryTicker(), "Crypto")
	counter := orPlaceholder(c.CounterTicker(), market.QuoteTicker)
	l.QuantityMode = "Quantity (" + primary + ")"
	l.TotalMode = "Total (" + counter + ")"

	if c.InputMode() == market.ModeQuantity {
		l.Amount = l.QuantityMode
	} else {
		l.Amount = l.TotalMode
	}
	return l
}

// SliderAmount converts a percentage-of-balance slider position into an
// amount of the balance asset. It returns exactly zero, never an error, when
// no ticker is selected, the wallet snapshot has not arrived, or the asset
// is not in the wallet.
func (c *Controller) SliderAmount(percent int) decimal.Decimal {
	if percent <= 0 {
		return decimal.Zero
	}
	if percent > 100 {
		percent = 100
	}

	ticker := c.balanceTicker()
	if ticker == "" || !c.state.Ready() {
		return decimal.Zero
	}
	h, ok := c.state.HoldingByTicker(ticker)
	if !ok {
		return decimal.Zero
	}
	return h.Available.Mul(decimal.NewFromInt(int64(percent))).Div(decimal.NewFromInt(100))
}

func orPlaceholder(s, placeholder string) string {
	if s == "" {
		return placeholder
	}
	return s
}
