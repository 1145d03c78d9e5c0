package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/coinview/coinview/internal/client"
	"github.com/coinview/coinview/internal/form"
	"github.com/coinview/coinview/internal/market"
	"github.com/coinview/coinview/internal/viewstate"
)

// pollInterval is how often the dashboard re-fetches prices and the wallet.
const pollInterval = 15 * time.Second

type mode int

const (
	modeTrade mode = iota
	modeMarkets
	modeWallet
	modeOrders
	modeHistory
)

var tabModes = []mode{modeTrade, modeMarkets, modeWallet, modeOrders, modeHistory}

func tabLabel(m mode) string {
	switch m {
	case modeTrade:
		return "Trade"
	case modeMarkets:
		return "Markets"
	case modeWallet:
		return "Wallet"
	case modeOrders:
		return "Orders"
	case modeHistory:
		return "History"
	default:
		return ""
	}
}

type pollTickMsg struct{}

// snapshotLoadedMsg carries one market-and-wallet refresh.
type snapshotLoadedMsg struct {
	assets   []market.Asset
	holdings []market.Holding
	err      error
}

// Options configures the dashboard: the restored view state and where to
// persist it.
type Options struct {
	InitialTicker   string
	InitialInterval market.Interval
	ViewState       *viewstate.Store
}

type App struct {
	client        *client.Client
	state         *form.MarketState
	mode          mode
	tabIndex      int
	width, height int
	statusMsg     string

	// polling guards against overlapping snapshot fetches: while one is in
	// flight, ticks reschedule but do not fetch again.
	polling bool

	trade   tradeModel
	markets marketsModel
	wallet  walletModel
	orders  ordersModel
	history historyModel
}

func NewApp(c *client.Client, opts Options) *App {
	state := form.NewMarketState()
	app := &App{
		client: c,
		state:  state,
		mode:   modeTrade,
	}
	app.trade = newTradeModel(state, viewSaver{store: opts.ViewState}, opts.InitialTicker, opts.InitialInterval)
	app.markets.loading = true
	app.wallet.loading = true
	return app
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.loadSnapshot(false),
		a.trade.init(a.client),
		a.orders.init(a.client),
		a.history.init(a.client),
		a.scheduleTick(),
	)
}

func (a *App) scheduleTick() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg {
		return pollTickMsg{}
	})
}

// loadSnapshot fetches assets and holdings in one command. Polls ask the
// server to re-quote prices first; the initial load takes them as they are.
func (a *App) loadSnapshot(refresh bool) tea.Cmd {
	c := a.client
	return func() tea.Msg {
		ctx := context.Background()
		var assets []market.Asset
		var err error
		if refresh {
			assets, err = c.RefreshMarkets(ctx)
		} else {
			assets, err = c.ListMarkets(ctx)
		}
		if err != nil {
			return snapshotLoadedMsg{err: err}
		}
		holdings, err := c.Wallet(ctx)
		if err != nil {
			return snapshotLoadedMsg{err: err}
		}
		return snapshotLoadedMsg{assets: assets, holdings: holdings}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.trade.width = msg.Width
		a.trade.height = msg.Height - 6
		a.markets.width = msg.Width
		a.markets.height = msg.Height - 6
		a.wallet.width = msg.Width
		a.wallet.height = msg.Height - 6
		a.orders.width = msg.Width
		a.orders.height = msg.Height - 6
		a.history.width = msg.Width
		a.history.height = msg.Height - 6
		return a, nil

	case pollTickMsg:
		cmds := []tea.Cmd{a.scheduleTick()}
		if !a.polling {
			a.polling = true
			cmds = append(cmds, a.loadSnapshot(true))
		}
		return a, tea.Batch(cmds...)

	case snapshotLoadedMsg:
		a.polling = false
		if msg.err != nil {
			a.markets.setAssets(nil, msg.err)
			a.wallet.setHoldings(nil, msg.err)
			return a, nil
		}
		a.state.SetAssets(msg.assets)
		a.state.SetHoldings(msg.holdings)
		a.markets.setAssets(msg.assets, nil)
		a.wallet.setHoldings(msg.holdings, nil)
		// A coin that appeared or drained out of the wallet must show up in
		// (or drop from) the right selector.
		a.trade.controller.RefreshSelectors()
		return a, a.trade.drainCharts(a.client)

	case chartLoadedMsg:
		var cmd tea.Cmd
		a.trade, cmd = a.trade.update(msg, a.client)
		return a, cmd

	case orderPlacedMsg:
		var cmd tea.Cmd
		a.trade, cmd = a.trade.update(msg, a.client)
		if msg.err == nil {
			// Balances and the order book both moved.
			return a, tea.Batch(cmd, a.loadSnapshot(false), a.orders.init(a.client), a.history.init(a.client))
		}
		return a, cmd

	case ordersLoadedMsg:
		var cmd tea.Cmd
		a.orders, cmd = a.orders.update(msg)
		return a, cmd

	case historyLoadedMsg:
		var cmd tea.Cmd
		a.history, cmd = a.history.update(msg)
		return a, cmd

	case orderCancelConfirmedMsg:
		id := msg.id
		return a, func() tea.Msg {
			result, err := a.client.CancelOrder(context.Background(), id)
			if err != nil {
				return orderCancelledMsg{id: id, err: err}
			}
			return orderCancelledMsg{id: id, holding: result.Holding}
		}

	case orderCancelledMsg:
		a.orders, _ = a.orders.update(msg)
		if msg.err != nil {
			return a, nil
		}
		if msg.holding != nil {
			// Patch the snapshot in place so balances are right before the
			// next poll lands.
			a.state.UpsertHolding(*msg.holding)
			a.wallet.upsert(*msg.holding)
			a.trade.controller.RefreshSelectors()
		}
		a.statusMsg = "Order cancelled"
		return a, tea.Batch(a.orders.init(a.client), a.trade.drainCharts(a.client))

	case marketSelectedMsg:
		a.trade.controller.ChangeTicker(msg.ticker)
		a.mode = modeTrade
		a.tabIndex = 0
		a.statusMsg = ""
		return a, a.trade.drainCharts(a.client)
	}

	// While a text input owns the keyboard, the trade form sees everything.
	if a.mode == modeTrade && a.trade.typing() {
		var cmd tea.Cmd
		a.trade, cmd = a.trade.update(msg, a.client)
		return a, cmd
	}

	if a.mode == modeOrders && a.orders.confirmCancel {
		var cmd tea.Cmd
		a.orders, cmd = a.orders.update(msg)
		return a, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit

		case key.Matches(msg, keys.Tab):
			a.tabIndex = (a.tabIndex + 1) % len(tabModes)
			a.mode = tabModes[a.tabIndex]
			a.statusMsg = ""
			return a, a.refreshTab()

		case key.Matches(msg, keys.ShiftTab):
			a.tabIndex = (a.tabIndex - 1 + len(tabModes)) % len(tabModes)
			a.mode = tabModes[a.tabIndex]
			a.statusMsg = ""
			return a, a.refreshTab()
		}
	}

	// Delegate update to active sub-model
	var cmd tea.Cmd
	switch a.mode {
	case modeTrade:
		a.trade, cmd = a.trade.update(msg, a.client)
	case modeMarkets:
		a.markets, cmd = a.markets.update(msg)
	case modeOrders:
		a.orders, cmd = a.orders.update(msg)
	case modeHistory:
		a.history, cmd = a.history.update(msg)
	}
	return a, cmd
}

func (a *App) refreshTab() tea.Cmd {
	switch a.mode {
	case modeOrders:
		return a.orders.init(a.client)
	case modeHistory:
		return a.history.init(a.client)
	}
	return nil
}

func (a *App) View() string {
	tabs := ""
	for i, m := range tabModes {
		label := tabLabel(m)
		if i == a.tabIndex {
			tabs += activeTabStyle.Render(label)
		} else {
			tabs += inactiveTabStyle.Render(label)
		}
		if i < len(tabModes)-1 {
			tabs += " "
		}
	}

	var content string
	switch a.mode {
	case modeTrade:
		content = a.trade.view()
	case modeMarkets:
		content = a.markets.view()
	case modeWallet:
		content = a.wallet.view()
	case modeOrders:
		content = a.orders.view()
	case modeHistory:
		content = a.history.view()
	}

	status := ""
	if a.statusMsg != "" {
		status = successStyle.Render(a.statusMsg)
	}

	helpText := dimStyle.Render("tab:switch  ↑/↓:field  ←/→:change  enter:edit/confirm  b/s:side  t:qty/total  q:quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		tabs,
		"",
		content,
		"",
		status,
		helpText,
	)
}
