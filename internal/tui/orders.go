package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/coinview/coinview/internal/client"
	"github.com/coinview/coinview/internal/market"
)

type ordersLoadedMsg struct {
	orders []market.Order
	err    error
}

// orderCancelConfirmedMsg is sent when the user confirms cancellation.
type orderCancelConfirmedMsg struct {
	id string
}

// orderCancelledMsg is sent after the server processes the cancel. The
// holding, when present, is the one whose reservation was released.
type orderCancelledMsg struct {
	id      string
	holding *market.Holding
	err     error
}

type ordersModel struct {
	orders         []market.Order
	cursor         int
	loading        bool
	err            error
	confirmCancel  bool
	cancelTargetID string
	width          int
	height         int
}

func (m *ordersModel) init(c *client.Client) tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		orders, err := c.OpenOrders(context.Background())
		return ordersLoadedMsg{orders: orders, err: err}
	}
}

func (m ordersModel) update(msg tea.Msg) (ordersModel, tea.Cmd) {
	switch msg := msg.(type) {
	case ordersLoadedMsg:
		m.loading = false
		m.orders = msg.orders
		m.err = msg.err
		if m.cursor >= len(m.orders) {
			m.cursor = 0
		}

	case orderCancelledMsg:
		m.confirmCancel = false
		m.cancelTargetID = ""
		if msg.err != nil {
			m.err = msg.err
		}

	case tea.KeyMsg:
		if m.confirmCancel {
			switch msg.String() {
			case "y", "Y":
				id := m.cancelTargetID
				m.confirmCancel = false
				return m, func() tea.Msg {
					return orderCancelConfirmedMsg{id: id}
				}
			default:
				m.confirmCancel = false
				m.cancelTargetID = ""
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.orders)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Cancel):
			if id := m.selectedID(); id != "" {
				m.confirmCancel = true
				m.cancelTargetID = id
				m.err = nil
			}
		}
	}
	return m, nil
}

func (m *ordersModel) selectedID() string {
	if m.cursor >= 0 && m.cursor < len(m.orders) {
		return m.orders[m.cursor].ID
	}
	return ""
}

func (m *ordersModel) view() string {
	if m.loading {
		return "Loading orders..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if len(m.orders) == 0 {
		return dimStyle.Render("No open orders.")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Open Orders"))
	b.WriteString("\n")

	header := fmt.Sprintf("  %-12s %-6s %-10s %14s %14s %16s", "PAIR", "SIDE", "TYPE", "TRIGGER", "LIMIT", "QUANTITY")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	for i, o := range m.orders {
		limit := "--"
		if o.LimitPrice.Sign() > 0 {
			limit = o.LimitPrice.String()
		}
		line := fmt.Sprintf("  %-12s %-6s %-10s %14s %14s %16s",
			o.Pair, strings.ToUpper(string(o.Direction)), o.Type,
			o.TriggerPrice.String(), limit, market.FormatQuantity(o.Quantity))
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line[2:]))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	if m.confirmCancel {
		b.WriteString("\n" + errorStyle.Render("  Cancel this order? (y/n)"))
	} else {
		b.WriteString(dimStyle.Render(fmt.Sprintf("\n  %d open orders  (c: cancel)", len(m.orders))))
	}
	return b.String()
}
