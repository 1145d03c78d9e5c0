package form

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/coinview/coinview/internal/market"
)

type chartCall struct {
	ticker   string
	interval market.Interval
	token    uint64
}

type fakeCharts struct {
	calls []chartCall
}

func (f *fakeCharts) RequestChart(ticker string, interval market.Interval, token uint64) {
	f.calls = append(f.calls, chartCall{ticker: ticker, interval: interval, token: token})
}

type savedState struct {
	ticker   string
	interval market.Interval
}

type fakeSaver struct {
	saves []savedState
}

func (f *fakeSaver) SaveViewState(ticker string, interval market.Interval) {
	f.saves = append(f.saves, savedState{ticker: ticker, interval: interval})
}

func holding(ticker, available string) market.Holding {
	q := decimal.RequireFromString(available)
	return market.Holding{
		Ticker:             ticker,
		Available:          q,
		AvailableFormatted: market.FormatQuantity(q),
	}
}

// newTestController builds a controller over the given snapshot, runs the
// initial sync, and completes the initial chart fetch so tests observe a
// settled form.
func newTestController(t *testing.T, assetList []market.Asset, holdings []market.Holding) (*Controller, *fakeCharts, *fakeSaver) {
	t.Helper()
	st := NewMarketState()
	st.SetAssets(assetList)
	if holdings != nil {
		st.SetHoldings(holdings)
	}
	charts := &fakeCharts{}
	saver := &fakeSaver{}
	c := NewController(Config{
		State:           st,
		Charts:          charts,
		Saver:           saver,
		InitialTicker:   "BTC",
		InitialInterval: market.Interval1d,
	})
	c.Init()
	if len(charts.calls) > 0 {
		c.FinishChart(charts.calls[len(charts.calls)-1].token)
	}
	charts.calls = nil
	saver.saves = nil
	return c, charts, saver
}

func defaultAssets() []market.Asset {
	return assets("BTC", "ETH", "USDT", "SOL")
}

func defaultHoldings() []market.Holding {
	return []market.Holding{
		holding("USDT", "1000"),
		holding("BTC", "0.5"),
	}
}

func optionTickers(s *Selector) []string {
	out := make([]string, 0, len(s.Options()))
	for _, o := range s.Options() {
		out = append(out, o.Ticker)
	}
	return out
}

func TestCounterSelectorNeverContainsPrimary(t *testing.T) {
	// Property from the selector-sync rule: whatever the direction and
	// primary selection, the counter options exclude the primary asset.
	allHoldings := []market.Holding{
		holding("BTC", "1"), holding("ETH", "2"), holding("USDT", "500"), holding("SOL", "10"),
	}
	for _, dir := range []market.Direction{market.DirectionBuy, market.DirectionSell} {
		for _, primary := range []string{"BTC", "ETH", "SOL"} {
			c, _, _ := newTestController(t, defaultAssets(), allHoldings)
			c.SetDirection(dir)
			c.ChangeTicker(primary)

			for _, opt := range c.Counter().Options() {
				if opt.Ticker == c.PrimaryTicker() {
					t.Errorf("direction=%s primary=%s: counter selector offers the primary asset", dir, primary)
				}
			}
		}
	}
}

func TestBuyModePayWithOptions(t *testing.T) {
	// Owning BTC, ETH and USDT and buying BTC: pay-with offers ETH and
	// USDT, defaulting to USDT.
	owned := []market.Holding{
		holding("BTC", "1"), holding("ETH", "2"), holding("USDT", "500"),
	}
	c, _, _ := newTestController(t, assets("BTC", "ETH", "USDT"), owned)

	got := optionTickers(c.PayWith)
	want := []string{"ETH", "USDT"}
	if len(got) != len(want) {
		t.Fatalf("pay-with options = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pay-with options = %v, want %v", got, want)
		}
	}
	if c.PayTicker() != "USDT" {
		t.Errorf("pay-with default = %q, want USDT", c.PayTicker())
	}
}

func TestBuyModeNoFundsDisablesPayWith(t *testing.T) {
	c, _, _ := newTestController(t, defaultAssets(), []market.Holding{})

	if !c.PayWith.Disabled() {
		t.Error("pay-with selector should be disabled when the wallet is empty")
	}
	if c.PayWith.Placeholder() != "No funds available" {
		t.Errorf("placeholder = %q, want %q", c.PayWith.Placeholder(), "No funds available")
	}
	if c.PayTicker() != "" {
		t.Errorf("pay ticker = %q, want empty", c.PayTicker())
	}
	if c.CanSubmit() {
		t.Error("submission must be blocked with no eligible pay asset")
	}
}

func TestSetDirectionIdempotent(t *testing.T) {
	c, charts, saver := newTestController(t, defaultAssets(), defaultHoldings())

	c.SetDirection(market.DirectionSell)
	once := c.Selection()
	onceOpts := optionTickers(c.Counter())
	chartsOnce, savesOnce := len(charts.calls), len(saver.saves)

	c.SetDirection(market.DirectionSell)
	twice := c.Selection()
	twiceOpts := optionTickers(c.Counter())

	if once != twice {
		t.Errorf("selection after repeat SetDirection = %+v, want %+v", twice, once)
	}
	if len(onceOpts) != len(twiceOpts) {
		t.Errorf("counter options changed on repeat SetDirection: %v vs %v", onceOpts, twiceOpts)
	}
	if len(charts.calls) != chartsOnce || len(saver.saves) != savesOnce {
		t.Error("repeat SetDirection caused extra chart fetches or state saves")
	}
}

func TestSellModeWalksPrimaryToOwnedCoin(t *testing.T) {
	// Selling while the current ticker is not owned: the primary selection
	// walks to the first owned non-quote coin and the chart follows.
	owned := []market.Holding{holding("USDT", "100"), holding("ETH", "3")}
	c, charts, saver := newTestController(t, defaultAssets(), owned)

	c.SetDirection(market.DirectionSell)

	if c.PrimaryTicker() != "ETH" {
		t.Fatalf("primary after sell switch = %q, want ETH", c.PrimaryTicker())
	}
	if c.Ticker() != "ETH" {
		t.Errorf("controller ticker = %q, want ETH", c.Ticker())
	}
	if len(charts.calls) != 1 || charts.calls[0].ticker != "ETH" {
		t.Errorf("chart calls = %+v, want one fetch for ETH", charts.calls)
	}
	if len(saver.saves) != 1 || saver.saves[0].ticker != "ETH" {
		t.Errorf("saves = %+v, want one save for ETH", saver.saves)
	}
}

func TestChangeTickerGuard(t *testing.T) {
	c, charts, saver := newTestController(t, defaultAssets(), defaultHoldings())

	if c.ChangeTicker("") {
		t.Error("ChangeTicker(\"\") should be a no-op")
	}
	if c.ChangeTicker("BTC") {
		t.Error("ChangeTicker with the current ticker should be a no-op")
	}
	if len(charts.calls) != 0 || len(saver.saves) != 0 {
		t.Fatalf("no-op ChangeTicker caused side effects: %d fetches, %d saves", len(charts.calls), len(saver.saves))
	}

	if !c.ChangeTicker("ETH") {
		t.Fatal("ChangeTicker to a new ticker should be accepted")
	}
	if len(charts.calls) != 1 {
		t.Fatalf("chart fetches = %d, want 1", len(charts.calls))
	}

	// Same value again: still exactly one fetch.
	c.FinishChart(charts.calls[0].token)
	c.ChangeTicker("ETH")
	if len(charts.calls) != 1 {
		t.Errorf("chart fetches after repeat ChangeTicker = %d, want 1", len(charts.calls))
	}
}

func TestChartSingleFlight(t *testing.T) {
	c, charts, _ := newTestController(t, defaultAssets(), defaultHoldings())

	c.ChangeTicker("ETH")
	if len(charts.calls) != 1 {
		t.Fatalf("chart fetches = %d, want 1", len(charts.calls))
	}

	// A second transition while the fetch is in flight is dropped, not
	// queued. The selector state still advances.
	c.ChangeInterval(market.Interval1h)
	if len(charts.calls) != 1 {
		t.Fatalf("overlapping fetch was not dropped: %d fetches", len(charts.calls))
	}
	if c.Interval() != market.Interval1h {
		t.Errorf("interval = %s, want 1h even while chart is loading", c.Interval())
	}

	if !c.FinishChart(charts.calls[0].token) {
		t.Error("completing the in-flight fetch should report current")
	}

	c.ChangeInterval(market.Interval4h)
	if len(charts.calls) != 2 {
		t.Errorf("chart fetches after completion = %d, want 2", len(charts.calls))
	}
	if got := charts.calls[1]; got.ticker != "ETH" || got.interval != market.Interval4h {
		t.Errorf("second fetch = %+v, want ETH/4h", got)
	}

	// A stale token must be reported as superseded.
	if c.FinishChart(charts.calls[0].token) {
		t.Error("stale chart token should be rejected")
	}
	if !c.FinishChart(charts.calls[1].token) {
		t.Error("current chart token should be accepted")
	}
}

func TestSetOrderTypeFieldMatrix(t *testing.T) {
	tests := []struct {
		orderType market.OrderType
		want      PriceFields
	}{
		{market.TypeMarket, PriceFields{}},
		{market.TypeLimit, PriceFields{
			TriggerVisible: true, TriggerRequired: true, TriggerLabel: "Limit Price",
		}},
		{market.TypeStopLimit, PriceFields{
			TriggerVisible: true, TriggerRequired: true, TriggerLabel: "Stop Price",
			LimitVisible: true, LimitRequired: true, LimitLabel: "Limit Price",
		}},
	}

	c, _, _ := newTestController(t, defaultAssets(), defaultHoldings())
	for _, tt := range tests {
		t.Run(string(tt.orderType), func(t *testing.T) {
			c.SetOrderType(tt.orderType)
			if got := c.PriceFields(); got != tt.want {
				t.Errorf("PriceFields() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResetAmountModePolicy(t *testing.T) {
	st := NewMarketState()
	st.SetAssets(defaultAssets())
	st.SetHoldings(defaultHoldings())

	// Default policy: amount mode survives order-type changes.
	c := NewController(Config{State: st, InitialTicker: "BTC", InitialInterval: market.Interval1d})
	c.Init()
	c.SetAmountMode(market.ModeTotal)
	c.SetOrderType(market.TypeLimit)
	if c.InputMode() != market.ModeTotal {
		t.Errorf("default policy: mode = %s, want total", c.InputMode())
	}

	// Opt-in policy: switching away from market resets to quantity.
	c = NewController(Config{
		State: st, InitialTicker: "BTC", InitialInterval: market.Interval1d,
		ResetAmountModeOnType: true,
	})
	c.Init()
	c.SetAmountMode(market.ModeTotal)
	c.SetOrderType(market.TypeStopLimit)
	if c.InputMode() != market.ModeQuantity {
		t.Errorf("reset policy: mode = %s, want quantity", c.InputMode())
	}
}

func TestInitialState(t *testing.T) {
	c, _, _ := newTestController(t, defaultAssets(), defaultHoldings())

	if !c.IsBuyMode() {
		t.Error("initial direction should be buy")
	}
	if c.OrderType() != market.TypeMarket {
		t.Errorf("initial order type = %s, want market", c.OrderType())
	}
	if c.InputMode() != market.ModeQuantity {
		t.Errorf("initial amount mode = %s, want quantity", c.InputMode())
	}
	if c.PrimaryTicker() != "BTC" {
		t.Errorf("initial primary = %q, want BTC", c.PrimaryTicker())
	}
}
