package tui

import (
	"fmt"
	"strings"

	"github.com/coinview/coinview/internal/market"
)

type walletModel struct {
	holdings []market.Holding
	loading  bool
	err      error
	width    int
	height   int
}

func (m *walletModel) setHoldings(holdings []market.Holding, err error) {
	m.loading = false
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.holdings = holdings
}

// upsert patches one holding in place, matching what the market state does
// when a cancel response carries the released balance.
func (m *walletModel) upsert(h market.Holding) {
	for i := range m.holdings {
		if m.holdings[i].Ticker == h.Ticker {
			m.holdings[i] = h
			return
		}
	}
	m.holdings = append(m.holdings, h)
}

func (m *walletModel) view() string {
	if m.loading {
		return "Loading wallet..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if len(m.holdings) == 0 {
		return dimStyle.Render("Wallet is empty.")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Wallet"))
	b.WriteString("\n")

	header := fmt.Sprintf("  %-8s %18s %18s %14s", "ASSET", "AVAILABLE", "RESERVED", "VALUE")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	for _, h := range m.holdings {
		reserved := market.FormatQuantity(h.Reserved)
		line := fmt.Sprintf("  %-8s %18s %18s %14s", h.Ticker, h.AvailableFormatted, reserved, h.ValueUSDFormatted)
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString(dimStyle.Render(fmt.Sprintf("\n  %d assets", len(m.holdings))))
	return b.String()
}
