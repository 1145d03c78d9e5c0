package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/coinview/coinview/internal/market"
)

// marketSelectedMsg is sent when the user picks a market to trade.
type marketSelectedMsg struct {
	ticker string
}

type marketsModel struct {
	assets  []market.Asset
	cursor  int
	loading bool
	err     error
	width   int
	height  int
}

func (m *marketsModel) setAssets(assets []market.Asset, err error) {
	m.loading = false
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.assets = assets
	if m.cursor >= len(assets) {
		m.cursor = 0
	}
}

func (m marketsModel) update(msg tea.Msg) (marketsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.assets)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Enter):
			if m.cursor >= 0 && m.cursor < len(m.assets) {
				ticker := m.assets[m.cursor].Ticker
				if ticker != market.QuoteTicker {
					return m, func() tea.Msg {
						return marketSelectedMsg{ticker: ticker}
					}
				}
			}
		}
	}
	return m, nil
}

func (m *marketsModel) view() string {
	if m.loading {
		return "Loading markets..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if len(m.assets) == 0 {
		return dimStyle.Render("No markets available.")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Markets"))
	b.WriteString("\n")

	header := fmt.Sprintf("  %-12s %-20s %14s %10s", "PAIR", "NAME", "PRICE", "24H")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	for i, a := range m.assets {
		change := market.FormatPercent(a.Change24h)
		changeStyled := upStyle.Render(fmt.Sprintf("%10s", change))
		if a.Change24h.Sign() < 0 {
			changeStyled = downStyle.Render(fmt.Sprintf("%10s", change))
		}
		line := fmt.Sprintf("  %-12s %-20s %14s ", market.Pair(a.Ticker), a.Name, market.FormatUSD(a.PriceUSD))
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> "+line[2:]) + changeStyled)
		} else {
			b.WriteString(line + changeStyled)
		}
		b.WriteString("\n")
	}

	b.WriteString(dimStyle.Render(fmt.Sprintf("\n  %d markets  (enter: trade)", len(m.assets))))
	return b.String()
}
