package form

import "github.com/coinview/coinview/internal/market"

// ChartRequester starts an asynchronous candle fetch. Implementations must
// hand the token back to Controller.FinishChart when the fetch completes so
// stale responses can be told apart from the current one.
type ChartRequester interface {
	RequestChart(ticker string, interval market.Interval, token uint64)
}

// ViewStateSaver persists the (ticker, interval) pair across sessions.
// Failures are the saver's problem; the form never blocks on it.
type ViewStateSaver interface {
	SaveViewState(ticker string, interval market.Interval)
}

// Config wires a Controller to its collaborators.
type Config struct {
	State  *MarketState
	Charts ChartRequester
	Saver  ViewStateSaver

	InitialTicker   string
	InitialInterval market.Interval

	// ResetAmountModeOnType flips the amount input back to quantity when
	// the order type changes away from market. The upstream product never
	// settled this either way, so it is a policy knob rather than a rule.
	ResetAmountModeOnType bool
}

// Controller owns the live state of the order form: the
// (direction, orderType, amountMode, ticker, interval) tuple and the three
// currency selectors. Every user event funnels through one of its methods;
// each method leaves the form internally consistent before returning, and
// only then kicks off asynchronous work (chart fetch, state save).
type Controller struct {
	state  *MarketState
	charts ChartRequester
	saver  ViewStateSaver

	direction  market.Direction
	orderType  market.OrderType
	amountMode market.AmountMode
	ticker     string
	interval   market.Interval

	Primary   *Selector
	PayWith   *Selector
	ReceiveIn *Selector

	chartLoading bool
	chartToken   uint64

	resetAmountModeOnType bool
}

func NewController(cfg Config) *Controller {
	c := &Controller{
		state:                 cfg.State,
		charts:                cfg.Charts,
		saver:                 cfg.Saver,
		direction:             market.DirectionBuy,
		orderType:             market.TypeMarket,
		amountMode:            market.ModeQuantity,
		ticker:                cfg.InitialTicker,
		interval:              cfg.InitialInterval,
		Primary:               &Selector{},
		PayWith:               &Selector{},
		ReceiveIn:             &Selector{},
		resetAmountModeOnType: cfg.ResetAmountModeOnType,
	}
	if c.state == nil {
		c.state = NewMarketState()
	}
	if c.ticker == "" {
		c.ticker = "BTC"
	}
	if !c.interval.Valid() {
		c.interval = market.Interval1d
	}
	return c
}

// Init runs the initial selector population and the first chart fetch.
// Called once after the reference data is in the MarketState; the order
// matters: direction first so field visibility is settled, then selectors,
// then the async chart load.
func (c *Controller) Init() {
	c.applySync()
	c.refreshChart()
}

// --- Form state reads. Synchronous, no side effects. ---

// IsBuyMode reports whether the form is on the buy side.
func (c *Controller) IsBuyMode() bool {
	return c.direction == market.DirectionBuy
}

func (c *Controller) Direction() market.Direction {
	return c.direction
}

func (c *Controller) OrderType() market.OrderType {
	return c.orderType
}

// InputMode reports whether the numeric input is a crypto quantity or a
// counter-currency total.
func (c *Controller) InputMode() market.AmountMode {
	return c.amountMode
}

func (c *Controller) PrimaryTicker() string {
	return c.Primary.Value()
}

func (c *Controller) PayTicker() string {
	return c.PayWith.Value()
}

func (c *Controller) ReceiveTicker() string {
	return c.ReceiveIn.Value()
}

// CounterTicker is the asset paid with in buy mode, received in sell mode.
func (c *Controller) CounterTicker() string {
	if c.IsBuyMode() {
		return c.PayTicker()
	}
	return c.ReceiveTicker()
}

// Counter returns the active counter selector for the current direction.
func (c *Controller) Counter() *Selector {
	if c.IsBuyMode() {
		return c.PayWith
	}
	return c.ReceiveIn
}

func (c *Controller) Ticker() string {
	return c.ticker
}

func (c *Controller) Interval() market.Interval {
	return c.interval
}

func (c *Controller) ChartLoading() bool {
	return c.chartLoading
}

// Selection is a point-in-time snapshot of the derived form state.
type Selection struct {
	Direction     market.Direction
	OrderType     market.OrderType
	AmountMode    market.AmountMode
	PrimaryTicker string
	CounterTicker string
}

func (c *Controller) Selection() Selection {
	return Selection{
		Direction:     c.direction,
		OrderType:     c.orderType,
		AmountMode:    c.amountMode,
		PrimaryTicker: c.PrimaryTicker(),
		CounterTicker: c.CounterTicker(),
	}
}

// CanSubmit reports whether the form currently describes a placeable order:
// a primary asset is selected and the active counter selector is not in its
// disabled empty state.
func (c *Controller) CanSubmit() bool {
	if c.PrimaryTicker() == "" {
		return false
	}
	counter := c.Counter()
	return !counter.Disabled() && counter.Value() != ""
}

// --- Transitions. ---

// SetDirection switches the form between buy and sell. Idempotent: calling
// it twice with the same direction settles on identical state, because
// selector repopulation preserves a still-valid previous selection.
func (c *Controller) SetDirection(d market.Direction) {
	if !d.Valid() {
		return
	}
	c.direction = d
	c.applySync()
}

// SetOrderType moves between market, limit, and stop-limit. Field
// visibility is derived (see PriceFields), so the switch itself only
// records the type and optionally resets the amount mode.
func (c *Controller) SetOrderType(t market.OrderType) {
	if !t.Valid() {
		return
	}
	c.orderType = t
	if c.resetAmountModeOnType && t != market.TypeMarket {
		c.amountMode = market.ModeQuantity
	}
}

func (c *Controller) SetAmountMode(m market.AmountMode) {
	if m != market.ModeQuantity && m != market.ModeTotal {
		return
	}
	c.amountMode = m
}

// ChangeTicker selects a new primary asset. A no-op on empty input or when
// the ticker is already current, so redundant selector events never cause a
// second chart fetch. On an accepted change the synchronous selector and
// label state settles first; only then does the async chart fetch start and
// the view state persist.
func (c *Controller) ChangeTicker(ticker string) bool {
	if ticker == "" || ticker == c.ticker {
		return false
	}
	c.ticker = ticker
	c.applySync()
	c.refreshChart()
	c.saveViewState()
	return true
}

// ChangeInterval selects a new chart timeframe with the same guard,
// refresh, and persist pattern as ChangeTicker.
func (c *Controller) ChangeInterval(iv market.Interval) bool {
	if !iv.Valid() || iv == c.interval {
		return false
	}
	c.interval = iv
	c.refreshChart()
	c.saveViewState()
	return true
}

// RefreshSelectors recomputes all selector option sets against the current
// snapshot. Called after a wallet poll lands so a coin that appeared or
// drained out of the wallet shows up in (or drops from) the right selector.
func (c *Controller) RefreshSelectors() {
	c.applySync()
}

// FinishChart records completion of the fetch identified by token and
// reports whether its result is current. A false return means a newer
// request superseded this one and its data must be discarded.
func (c *Controller) FinishChart(token uint64) bool {
	if token != c.chartToken {
		return false
	}
	c.chartLoading = false
	return true
}

// applySync repopulates the primary selector for the current direction,
// follows a forced primary move (selling a coin you no longer own walks the
// selection to the first owned coin), then rebuilds the counter selector.
func (c *Controller) applySync() {
	var resolved string
	if c.IsBuyMode() {
		// Anything tradable except the quote coin itself.
		opts := withoutTicker(c.state.Assets(), market.QuoteTicker)
		resolved = c.Primary.Populate(opts, c.ticker, "No markets available")
	} else {
		opts := withoutTicker(c.state.OwnedAssets(), market.QuoteTicker)
		resolved = c.Primary.Populate(opts, c.ticker, "No coins to sell")
	}

	if resolved != "" && resolved != c.ticker {
		// Repopulation moved the primary selection; the chart follows it.
		c.ticker = resolved
		c.refreshChart()
		c.saveViewState()
	}

	c.syncCounterSelectors()
}

// syncCounterSelectors applies the domain rule for the dependent selector:
// in buy mode you pay with an owned asset that is not the one being bought;
// in sell mode you receive any tradable asset that is not the one being
// sold. USDT is the preferred default on both sides.
func (c *Controller) syncCounterSelectors() {
	primary := c.PrimaryTicker()
	if c.IsBuyMode() {
		opts := withoutTicker(c.state.OwnedAssets(), primary)
		c.PayWith.Populate(opts, market.QuoteTicker, "No funds available")
		return
	}
	opts := withoutTicker(c.state.Assets(), primary)
	c.ReceiveIn.Populate(opts, market.QuoteTicker, "No markets available")
}

// refreshChart starts an async candle fetch for the current pair. Single
// flight: while one fetch is running further requests are dropped, not
// queued. The token lets FinishChart discard a response that was somehow
// superseded anyway, so the last request always wins.
func (c *Controller) refreshChart() {
	if c.ticker == "" || c.chartLoading {
		return
	}
	c.chartLoading = true
	c.chartToken++
	if c.charts != nil {
		c.charts.RequestChart(c.ticker, c.interval, c.chartToken)
	}
}

func (c *Controller) saveViewState() {
	if c.saver != nil && c.ticker != "" {
		c.saver.SaveViewState(c.ticker, c.interval)
	}
}
