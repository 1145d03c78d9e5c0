package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/coinview/coinview/internal/client"
	"github.com/coinview/coinview/internal/form"
	"github.com/coinview/coinview/internal/market"
	"github.com/coinview/coinview/internal/viewstate"
)

type chartRequest struct {
	ticker   string
	interval market.Interval
	token    uint64
}

// chartQueue adapts the controller's synchronous chart callback to the tea
// runtime: requests pile up here and update drains them into commands.
type chartQueue struct {
	pending []chartRequest
}

func (q *chartQueue) RequestChart(ticker string, interval market.Interval, token uint64) {
	q.pending = append(q.pending, chartRequest{ticker: ticker, interval: interval, token: token})
}

// viewSaver adapts viewstate.Store to the controller's save hook. Save
// failures are logged and swallowed; persistence never blocks the form.
type viewSaver struct {
	store *viewstate.Store
}

func (v viewSaver) SaveViewState(ticker string, interval market.Interval) {
	if v.store == nil {
		return
	}
	if err := v.store.Save(ticker, interval); err != nil {
		logrus.WithError(err).Debug("view state not saved")
	}
}

type chartLoadedMsg struct {
	token   uint64
	candles []market.Candle
	err     error
}

type orderPlacedMsg struct {
	order *market.Order
	err   error
}

type tradeField int

const (
	fieldDirection tradeField = iota
	fieldOrderType
	fieldPrimary
	fieldCounter
	fieldInterval
	fieldTrigger
	fieldLimit
	fieldAmount
	fieldSubmit
)

type tradeModel struct {
	controller *form.Controller
	state      *form.MarketState
	charts     *chartQueue

	candles  []market.Candle
	chartErr error

	focus      int
	amount     textinput.Model
	trigger    textinput.Model
	limitPrice textinput.Model

	submitting bool
	err        error
	statusMsg  string

	width, height int
}

func newTradeModel(state *form.MarketState, saver form.ViewStateSaver, ticker string, interval market.Interval) tradeModel {
	charts := &chartQueue{}

	amount := textinput.New()
	amount.Placeholder = "0.00"
	amount.CharLimit = 24
	amount.Width = 20

	trigger := textinput.New()
	trigger.Placeholder = "0.00"
	trigger.CharLimit = 24
	trigger.Width = 20

	limit := textinput.New()
	limit.Placeholder = "0.00"
	limit.CharLimit = 24
	limit.Width = 20

	return tradeModel{
		controller: form.NewController(form.Config{
			State:           state,
			Charts:          charts,
			Saver:           saver,
			InitialTicker:   ticker,
			InitialInterval: interval,
		}),
		state:      state,
		charts:     charts,
		amount:     amount,
		trigger:    trigger,
		limitPrice: limit,
	}
}

func (m *tradeModel) init(c *client.Client) tea.Cmd {
	m.controller.Init()
	return m.drainCharts(c)
}

// drainCharts turns queued chart requests into fetch commands.
func (m *tradeModel) drainCharts(c *client.Client) tea.Cmd {
	if len(m.charts.pending) == 0 {
		return nil
	}
	reqs := m.charts.pending
	m.charts.pending = nil

	cmds := make([]tea.Cmd, len(reqs))
	for i, req := range reqs {
		req := req
		cmds[i] = func() tea.Msg {
			candles, err := c.Candles(context.Background(), req.ticker, req.interval)
			return chartLoadedMsg{token: req.token, candles: candles, err: err}
		}
	}
	return tea.Batch(cmds...)
}

// fields is the focus order for the current order type; price rows appear
// only when the type shows them.
func (m *tradeModel) fields() []tradeField {
	pf := m.controller.PriceFields()
	fs := []tradeField{fieldDirection, fieldOrderType, fieldPrimary, fieldCounter, fieldInterval}
	if pf.TriggerVisible {
		fs = append(fs, fieldTrigger)
	}
	if pf.LimitVisible {
		fs = append(fs, fieldLimit)
	}
	return append(fs, fieldAmount, fieldSubmit)
}

func (m *tradeModel) focusedField() tradeField {
	fs := m.fields()
	if m.focus >= len(fs) {
		m.focus = len(fs) - 1
	}
	return fs[m.focus]
}

// typing reports whether a text input currently owns the keyboard, in which
// case global shortcuts must not fire.
func (m *tradeModel) typing() bool {
	return m.amount.Focused() || m.trigger.Focused() || m.limitPrice.Focused()
}

func (m tradeModel) update(msg tea.Msg, c *client.Client) (tradeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case chartLoadedMsg:
		if !m.controller.FinishChart(msg.token) {
			return m, nil
		}
		m.candles = msg.candles
		m.chartErr = msg.err
		return m, nil

	case orderPlacedMsg:
		m.submitting = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.statusMsg = fmt.Sprintf("%s order placed (%s)", msg.order.Type, msg.order.Pair)
		m.amount.SetValue("")
		m.trigger.SetValue("")
		m.limitPrice.SetValue("")
		return m, nil

	case tea.KeyMsg:
		if m.typing() {
			return m.updateTyping(msg)
		}
		return m.updateKeys(msg, c)
	}
	return m, nil
}

func (m tradeModel) updateTyping(msg tea.KeyMsg) (tradeModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape), key.Matches(msg, keys.Enter):
		m.amount.Blur()
		m.trigger.Blur()
		m.limitPrice.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	switch {
	case m.amount.Focused():
		m.amount, cmd = m.amount.Update(msg)
	case m.trigger.Focused():
		m.trigger, cmd = m.trigger.Update(msg)
	case m.limitPrice.Focused():
		m.limitPrice, cmd = m.limitPrice.Update(msg)
	}
	return m, cmd
}

func (m tradeModel) updateKeys(msg tea.KeyMsg, c *client.Client) (tradeModel, tea.Cmd) {
	fs := m.fields()

	switch {
	case key.Matches(msg, keys.Up):
		if m.focus > 0 {
			m.focus--
		}
		return m, nil

	case key.Matches(msg, keys.Down):
		if m.focus < len(fs)-1 {
			m.focus++
		}
		return m, nil

	case key.Matches(msg, keys.Buy):
		m.controller.SetDirection(market.DirectionBuy)
		return m, m.drainCharts(c)

	case key.Matches(msg, keys.Sell):
		m.controller.SetDirection(market.DirectionSell)
		return m, m.drainCharts(c)

	case key.Matches(msg, keys.Mode):
		if m.controller.InputMode() == market.ModeQuantity {
			m.controller.SetAmountMode(market.ModeTotal)
		} else {
			m.controller.SetAmountMode(market.ModeQuantity)
		}
		return m, nil

	case key.Matches(msg, keys.Left):
		return m.adjust(-1, c)

	case key.Matches(msg, keys.Right):
		return m.adjust(1, c)

	case key.Matches(msg, keys.Enter):
		switch m.focusedField() {
		case fieldAmount:
			return m, m.amount.Focus()
		case fieldTrigger:
			return m, m.trigger.Focus()
		case fieldLimit:
			return m, m.limitPrice.Focus()
		case fieldSubmit:
			return m.submit(c)
		}
		return m, nil
	}

	// Percentage-of-balance shortcuts. The chosen amount is denominated in
	// the asset being spent, so the input flips to the matching mode.
	switch msg.String() {
	case "1", "2", "3", "4":
		pct := map[string]int{"1": 25, "2": 50, "3": 75, "4": 100}[msg.String()]
		v := m.controller.SliderAmount(pct)
		if m.controller.IsBuyMode() {
			m.controller.SetAmountMode(market.ModeTotal)
		} else {
			m.controller.SetAmountMode(market.ModeQuantity)
		}
		m.amount.SetValue(v.String())
	}
	return m, nil
}

// adjust moves the focused row's value left or right.
func (m tradeModel) adjust(delta int, c *client.Client) (tradeModel, tea.Cmd) {
	switch m.focusedField() {
	case fieldDirection:
		if m.controller.IsBuyMode() {
			m.controller.SetDirection(market.DirectionSell)
		} else {
			m.controller.SetDirection(market.DirectionBuy)
		}
		return m, m.drainCharts(c)

	case fieldOrderType:
		types := []market.OrderType{market.TypeMarket, market.TypeLimit, market.TypeStopLimit}
		cur := 0
		for i, t := range types {
			if t == m.controller.OrderType() {
				cur = i
			}
		}
		m.controller.SetOrderType(types[(cur+delta+len(types))%len(types)])
		return m, nil

	case fieldPrimary:
		sel := m.controller.Primary
		if sel.SelectIndex(sel.Index() + delta) {
			m.controller.ChangeTicker(sel.Value())
			return m, m.drainCharts(c)
		}
		return m, nil

	case fieldCounter:
		sel := m.controller.Counter()
		sel.SelectIndex(sel.Index() + delta)
		return m, nil

	case fieldInterval:
		cur := 0
		for i, iv := range market.Intervals {
			if iv == m.controller.Interval() {
				cur = i
			}
		}
		next := market.Intervals[(cur+delta+len(market.Intervals))%len(market.Intervals)]
		m.controller.ChangeInterval(next)
		return m, m.drainCharts(c)
	}
	return m, nil
}

func (m tradeModel) submit(c *client.Client) (tradeModel, tea.Cmd) {
	m.err = nil
	m.statusMsg = ""

	if m.submitting {
		return m, nil
	}
	if !m.controller.CanSubmit() {
		m.err = fmt.Errorf("select a market and a counter asset first")
		return m, nil
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(m.amount.Value()))
	if err != nil || amount.Sign() <= 0 {
		m.err = fmt.Errorf("enter a positive amount")
		return m, nil
	}

	sel := m.controller.Selection()

	qty := amount
	if sel.AmountMode == market.ModeTotal {
		// The input is in the counter currency; convert through USD prices.
		pPrimary, ok1 := m.state.PriceByTicker(sel.PrimaryTicker)
		pCounter, ok2 := m.state.PriceByTicker(sel.CounterTicker)
		if !ok1 || !ok2 || pPrimary.Sign() <= 0 {
			m.err = fmt.Errorf("no price available to convert total to quantity")
			return m, nil
		}
		qty = amount.Mul(pCounter).Div(pPrimary)
	}

	pf := m.controller.PriceFields()
	var triggerPrice, limitPrice decimal.Decimal
	if pf.TriggerRequired {
		triggerPrice, err = decimal.NewFromString(strings.TrimSpace(m.trigger.Value()))
		if err != nil || triggerPrice.Sign() <= 0 {
			m.err = fmt.Errorf("enter a valid %s", strings.ToLower(pf.TriggerLabel))
			return m, nil
		}
	}
	if pf.LimitRequired {
		limitPrice, err = decimal.NewFromString(strings.TrimSpace(m.limitPrice.Value()))
		if err != nil || limitPrice.Sign() <= 0 {
			m.err = fmt.Errorf("enter a valid %s", strings.ToLower(pf.LimitLabel))
			return m, nil
		}
	}

	params := client.PlaceOrderParams{
		Direction:     sel.Direction,
		Type:          sel.OrderType,
		PrimaryTicker: sel.PrimaryTicker,
		CounterTicker: sel.CounterTicker,
		Quantity:      qty,
		TriggerPrice:  triggerPrice,
		LimitPrice:    limitPrice,
	}

	m.submitting = true
	return m, func() tea.Msg {
		order, err := c.PlaceOrder(context.Background(), params)
		return orderPlacedMsg{order: order, err: err}
	}
}

func (m *tradeModel) view() string {
	var b strings.Builder

	pair := market.Pair(m.controller.Ticker())
	header := titleStyle.Render(pair) + "  " + dimStyle.Render(string(m.controller.Interval()))
	if m.controller.ChartLoading() {
		header += "  " + dimStyle.Render("loading chart…")
	}
	b.WriteString(header)
	b.WriteString("\n")

	chartWidth := m.width - 8
	if chartWidth < 40 {
		chartWidth = 40
	}
	if m.chartErr != nil {
		b.WriteString(errorStyle.Render("chart: " + m.chartErr.Error()))
	} else {
		b.WriteString(renderCandles(m.candles, chartWidth, 10))
	}
	b.WriteString("\n\n")

	labels := m.controller.Reconcile()

	b.WriteString(m.renderRow(fieldDirection, "Side", m.renderDirection()))
	b.WriteString(m.renderRow(fieldOrderType, "Order Type", string(m.controller.OrderType())))
	b.WriteString(m.renderRow(fieldPrimary, m.primaryLabel(), renderSelector(m.controller.Primary)))
	b.WriteString(m.renderRow(fieldCounter, m.counterLabel(), renderSelector(m.controller.Counter())))
	b.WriteString(m.renderRow(fieldInterval, "Interval", string(m.controller.Interval())))

	pf := m.controller.PriceFields()
	if pf.TriggerVisible {
		b.WriteString(m.renderRow(fieldTrigger, pf.TriggerLabel, m.trigger.View()))
	}
	if pf.LimitVisible {
		b.WriteString(m.renderRow(fieldLimit, pf.LimitLabel, m.limitPrice.View()))
	}

	b.WriteString(m.renderRow(fieldAmount, labels.Amount, m.amount.View()))
	b.WriteString("  " + labelStyle.Render("Available") + dimStyle.Render(labels.Balance) + "\n")
	b.WriteString("  " + labelStyle.Render("") + dimStyle.Render("1:25%  2:50%  3:75%  4:100%  t:"+m.modeHint()) + "\n")

	submit := "[ Place Order ]"
	if m.submitting {
		submit = "[ Placing… ]"
	}
	if m.focusedField() == fieldSubmit {
		submit = selectedStyle.Render("> " + submit)
	} else if !m.controller.CanSubmit() {
		submit = dimStyle.Render("  " + submit)
	} else {
		submit = "  " + submit
	}
	b.WriteString("\n" + submit + "\n")

	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render(m.err.Error()))
	} else if m.statusMsg != "" {
		b.WriteString("\n" + successStyle.Render(m.statusMsg))
	}

	return b.String()
}

func (m *tradeModel) renderRow(f tradeField, label, value string) string {
	marker := "  "
	if m.focusedField() == f {
		marker = selectedStyle.Render("> ")
		label = selectedStyle.Render(label)
		return marker + labelStyle.Render(label) + value + "\n"
	}
	return marker + labelStyle.Render(label) + value + "\n"
}

func (m *tradeModel) renderDirection() string {
	if m.controller.IsBuyMode() {
		return buyStyle.Render("BUY") + " " + inactiveTabStyle.Render("SELL")
	}
	return inactiveTabStyle.Render("BUY") + " " + sellStyle.Render("SELL")
}

func (m *tradeModel) primaryLabel() string {
	if m.controller.IsBuyMode() {
		return "Buy"
	}
	return "Sell"
}

func (m *tradeModel) counterLabel() string {
	if m.controller.IsBuyMode() {
		return "Pay With"
	}
	return "Receive In"
}

func (m *tradeModel) modeHint() string {
	if m.controller.InputMode() == market.ModeQuantity {
		return "switch to total"
	}
	return "switch to quantity"
}

func renderSelector(s *form.Selector) string {
	if s.Disabled() {
		return dimStyle.Render(s.Placeholder())
	}
	if s.Value() == "" {
		return dimStyle.Render("--")
	}
	return fmt.Sprintf("‹ %s ›  %s", s.Value(), dimStyle.Render(fmt.Sprintf("%d/%d", s.Index()+1, len(s.Options()))))
}
