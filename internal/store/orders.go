package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coinview/coinview/internal/market"
)

// PlaceOrderRequest is a validated-on-entry order submission. Quantity is
// always in units of the primary asset; the client converts total-mode
// input before submitting.
type PlaceOrderRequest struct {
	Direction     market.Direction
	Type          market.OrderType
	PrimaryTicker string
	CounterTicker string
	Quantity      decimal.Decimal
	TriggerPrice  decimal.Decimal
	LimitPrice    decimal.Decimal
}

func (r *PlaceOrderRequest) validate() error {
	if !r.Direction.Valid() {
		return market.ErrInvalidDirection
	}
	if !r.Type.Valid() {
		return market.ErrInvalidOrderType
	}
	if r.PrimaryTicker == r.CounterTicker {
		return market.ErrSameAssetPair
	}
	if r.Quantity.Sign() <= 0 {
		return market.ErrInvalidQuantity
	}
	switch r.Type {
	case market.TypeLimit:
		if r.TriggerPrice.Sign() <= 0 {
			return market.ErrMissingPrice
		}
	case market.TypeStopLimit:
		if r.TriggerPrice.Sign() <= 0 || r.LimitPrice.Sign() <= 0 {
			return market.ErrMissingPrice
		}
	}
	return nil
}

// PlaceOrder executes a market order immediately against the reference
// price, or books a limit/stop-limit order and reserves the funds it
// commits. The returned order carries the final status.
func (s *Store) PlaceOrder(ctx context.Context, req *PlaceOrderRequest) (*market.Order, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	primary, err := s.GetAsset(ctx, req.PrimaryTicker)
	if err != nil {
		return nil, err
	}
	counter, err := s.GetAsset(ctx, req.CounterTicker)
	if err != nil {
		return nil, err
	}
	if counter.PriceUSD.Sign() <= 0 {
		return nil, fmt.Errorf("asset %s has no usable price", counter.Ticker)
	}

	order := &market.Order{
		ID:           uuid.NewString(),
		Pair:         market.Pair(req.PrimaryTicker),
		Direction:    req.Direction,
		Type:         req.Type,
		TriggerPrice: req.TriggerPrice,
		LimitPrice:   req.LimitPrice,
		Quantity:     req.Quantity,
		CreatedAt:    time.Now().UTC(),
	}
	if req.Direction == market.DirectionBuy {
		order.FromTicker, order.ToTicker = req.CounterTicker, req.PrimaryTicker
	} else {
		order.FromTicker, order.ToTicker = req.PrimaryTicker, req.CounterTicker
	}

	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if req.Type == market.TypeMarket {
		// Cost of the primary quantity expressed in the counter asset.
		cost := req.Quantity.Mul(primary.PriceUSD).Div(counter.PriceUSD)
		debit, credit := order.FromTicker, order.ToTicker
		debitQty, creditQty := cost, req.Quantity
		if req.Direction == market.DirectionSell {
			debitQty, creditQty = req.Quantity, cost
		}
		if err := adjustHolding(ctx, tx, debit, debitQty.Neg()); err != nil {
			return nil, err
		}
		if err := adjustHolding(ctx, tx, credit, creditQty); err != nil {
			return nil, err
		}
		order.Status = market.StatusFilled
		if err := insertTrade(ctx, tx, order, req.Quantity.Mul(primary.PriceUSD)); err != nil {
			return nil, err
		}
	} else {
		if err := moveToReserved(ctx, tx, order.FromTicker, reservedQuantity(order)); err != nil {
			return nil, err
		}
		order.Status = market.StatusOpen
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO orders (id, pair, direction, type, trigger_price, limit_price,
		                     quantity, from_ticker, to_ticker, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID, order.Pair, string(order.Direction), string(order.Type),
		order.TriggerPrice.String(), order.LimitPrice.String(), order.Quantity.String(),
		order.FromTicker, order.ToTicker, string(order.Status),
		order.CreatedAt.Format(time.RFC3339Nano),
	); err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return order, nil
}

// reservedQuantity is how much of the from-asset an open order has
// committed: the primary quantity when selling, its cost at the order's
// execution price when buying.
func reservedQuantity(o *market.Order) decimal.Decimal {
	if o.Direction == market.DirectionSell {
		return o.Quantity
	}
	price := o.LimitPrice
	if price.Sign() <= 0 {
		price = o.TriggerPrice
	}
	return o.Quantity.Mul(price)
}

// CancelOrder releases the order's reservation back to the available
// balance and returns the holding it updated, so clients can patch their
// snapshot without a full refetch.
func (s *Store) CancelOrder(ctx context.Context, id string) (*market.Holding, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status != market.StatusOpen {
		return nil, market.ErrOrderNotOpen
	}

	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := releaseReserved(ctx, tx, order.FromTicker, reservedQuantity(order)); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE orders SET status = 'cancelled' WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("cancel order: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return s.GetHolding(ctx, order.FromTicker)
}

func (s *Store) GetOrder(ctx context.Context, id string) (*market.Order, error) {
	row := s.reader.QueryRowContext(ctx,
		`SELECT id, pair, direction, type, trigger_price, limit_price,
		        quantity, from_ticker, to_ticker, status, created_at
		 FROM orders WHERE id = ?`, id)

	o, err := scanOrder(row.Scan)
	if err == sql.ErrNoRows {
		return nil, market.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan order: %w", err)
	}
	return o, nil
}

func (s *Store) ListOpenOrders(ctx context.Context) ([]market.Order, error) {
	rows, err := s.reader.QueryContext(ctx,
		`SELECT id, pair, direction, type, trigger_price, limit_price,
		        quantity, from_ticker, to_ticker, status, created_at
		 FROM orders WHERE status = 'open' ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list open orders: %w", err)
	}
	defer rows.Close()

	var orders []market.Order
	for rows.Next() {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func scanOrder(scan func(dest ...any) error) (*market.Order, error) {
	var o market.Order
	var trigger, limit, qty, createdAt string
	err := scan(&o.ID, &o.Pair, &o.Direction, &o.Type, &trigger, &limit,
		&qty, &o.FromTicker, &o.ToTicker, &o.Status, &createdAt)
	if err != nil {
		return nil, err
	}
	o.TriggerPrice, o.LimitPrice = mustDecimal(trigger), mustDecimal(limit)
	o.Quantity = mustDecimal(qty)
	o.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return &o, nil
}

func insertTrade(ctx context.Context, tx *sql.Tx, o *market.Order, totalUSD decimal.Decimal) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO trades (id, pair, direction, quantity, total_usd, executed_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), o.Pair, string(o.Direction),
		o.Quantity.String(), totalUSD.String(), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert trade: %w", err)
	}
	return nil
}

func (s *Store) ListTrades(ctx context.Context) ([]market.Trade, error) {
	rows, err := s.reader.QueryContext(ctx,
		`SELECT id, pair, direction, quantity, total_usd, executed_at
		 FROM trades ORDER BY executed_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}
	defer rows.Close()

	var trades []market.Trade
	for rows.Next() {
		var t market.Trade
		var qty, total, executedAt string
		if err := rows.Scan(&t.ID, &t.Pair, &t.Direction, &qty, &total, &executedAt); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		t.Quantity, t.TotalUSD = mustDecimal(qty), mustDecimal(total)
		t.ExecutedAt, _ = time.Parse(time.RFC3339Nano, executedAt)
		t.QuantityFormatted = market.FormatQuantity(t.Quantity)
		t.TotalUSDFormatted = market.FormatUSD(t.TotalUSD)
		t.ExecutedAtDisplay = market.FormatTimestamp(t.ExecutedAt)
		t.DirectionFormatted = strings.ToUpper(string(t.Direction))
		trades = append(trades, t)
	}
	return trades, rows.Err()
}
