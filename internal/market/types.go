package market

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction is the side of a trade as seen from the primary asset.
type Direction string

const (
	DirectionBuy  Direction = "buy"
	DirectionSell Direction = "sell"
)

func (d Direction) Valid() bool {
	return d == DirectionBuy || d == DirectionSell
}

// OrderType governs which price fields an order carries.
type OrderType string

const (
	TypeMarket    OrderType = "market"
	TypeLimit     OrderType = "limit"
	TypeStopLimit OrderType = "stop-limit"
)

func (t OrderType) Valid() bool {
	return t == TypeMarket || t == TypeLimit || t == TypeStopLimit
}

// AmountMode says whether the numeric input on the order form is a crypto
// quantity or a total in the counter currency.
type AmountMode string

const (
	ModeQuantity AmountMode = "quantity"
	ModeTotal    AmountMode = "total"
)

// QuoteTicker is the stablecoin every pair quotes against and the default
// counter asset when nothing else is selected.
const QuoteTicker = "USDT"

// Asset is reference data for one tradable asset.
type Asset struct {
	Ticker    string          `json:"ticker"`
	Name      string          `json:"name"`
	PriceUSD  decimal.Decimal `json:"price_usd"`
	Change24h decimal.Decimal `json:"change_24h"`
}

// Holding is one wallet entry. Available excludes quantity reserved by open
// orders. The *Formatted fields are rendered server-side so every client
// shows identical strings.
type Holding struct {
	Ticker             string          `json:"ticker"`
	Available          decimal.Decimal `json:"available"`
	Reserved           decimal.Decimal `json:"reserved"`
	AvailableFormatted string          `json:"available_formatted"`
	ValueUSDFormatted  string          `json:"value_usd_formatted"`
}

// Candle is one OHLCV bar of a series.
type Candle struct {
	Time   time.Time       `json:"time"`
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume decimal.Decimal `json:"volume"`
}

type OrderStatus string

const (
	StatusOpen      OrderStatus = "open"
	StatusFilled    OrderStatus = "filled"
	StatusCancelled OrderStatus = "cancelled"
)

// Order is a resting (or historical) exchange order.
type Order struct {
	ID           string          `json:"id"`
	Pair         string          `json:"pair"`
	Direction    Direction       `json:"direction"`
	Type         OrderType       `json:"type"`
	TriggerPrice decimal.Decimal `json:"trigger_price"`
	LimitPrice   decimal.Decimal `json:"limit_price"`
	Quantity     decimal.Decimal `json:"quantity"`
	FromTicker   string          `json:"from_ticker"`
	ToTicker     string          `json:"to_ticker"`
	Status       OrderStatus     `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Trade is one executed order in the account history.
type Trade struct {
	ID                 string          `json:"id"`
	Pair               string          `json:"pair"`
	Direction          Direction       `json:"direction"`
	Quantity           decimal.Decimal `json:"quantity"`
	TotalUSD           decimal.Decimal `json:"total_usd"`
	ExecutedAt         time.Time       `json:"executed_at"`
	QuantityFormatted  string          `json:"quantity_formatted"`
	TotalUSDFormatted  string          `json:"total_usd_formatted"`
	ExecutedAtDisplay  string          `json:"executed_at_display"`
	DirectionFormatted string          `json:"direction_formatted"`
}
