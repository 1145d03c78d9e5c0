package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/coinview/coinview/internal/client"
	"github.com/coinview/coinview/internal/market"
)

type historyLoadedMsg struct {
	trades []market.Trade
	err    error
}

type historyModel struct {
	trades  []market.Trade
	loading bool
	err     error
	width   int
	height  int
}

func (m *historyModel) init(c *client.Client) tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		trades, err := c.History(context.Background())
		return historyLoadedMsg{trades: trades, err: err}
	}
}

func (m historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		m.loading = false
		m.trades = msg.trades
		m.err = msg.err
	}
	return m, nil
}

func (m *historyModel) view() string {
	if m.loading {
		return "Loading history..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if len(m.trades) == 0 {
		return dimStyle.Render("No trades yet.")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Trade History"))
	b.WriteString("\n")

	header := fmt.Sprintf("  %-12s %-6s %16s %14s  %s", "PAIR", "SIDE", "QUANTITY", "TOTAL", "EXECUTED")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	maxRows := m.height - 4
	if maxRows < 1 {
		maxRows = 20
	}
	for i, t := range m.trades {
		if i >= maxRows {
			break
		}
		side := t.DirectionFormatted
		styled := upStyle.Render(fmt.Sprintf("%-6s", side))
		if t.Direction == market.DirectionSell {
			styled = downStyle.Render(fmt.Sprintf("%-6s", side))
		}
		b.WriteString(fmt.Sprintf("  %-12s ", t.Pair))
		b.WriteString(styled)
		b.WriteString(fmt.Sprintf(" %16s %14s  %s", t.QuantityFormatted, t.TotalUSDFormatted, t.ExecutedAtDisplay))
		b.WriteString("\n")
	}

	b.WriteString(dimStyle.Render(fmt.Sprintf("\n  %d trades", len(m.trades))))
	return b.String()
}
