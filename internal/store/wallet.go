package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/coinview/coinview/internal/market"
)

// ListHoldings returns the wallet snapshot with display strings rendered
// server-side, so every client shows the same formatting.
func (s *Store) ListHoldings(ctx context.Context) ([]market.Holding, error) {
	rows, err := s.reader.QueryContext(ctx,
		`SELECT ticker, available, reserved FROM holdings ORDER BY ticker`)
	if err != nil {
		return nil, fmt.Errorf("list holdings: %w", err)
	}
	defer rows.Close()

	var holdings []market.Holding
	for rows.Next() {
		var h market.Holding
		var available, reserved string
		if err := rows.Scan(&h.Ticker, &available, &reserved); err != nil {
			return nil, fmt.Errorf("scan holding: %w", err)
		}
		h.Available, h.Reserved = mustDecimal(available), mustDecimal(reserved)
		holdings = append(holdings, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range holdings {
		if err := s.decorateHolding(ctx, &holdings[i]); err != nil {
			return nil, err
		}
	}
	return holdings, nil
}

func (s *Store) GetHolding(ctx context.Context, ticker string) (*market.Holding, error) {
	row := s.reader.QueryRowContext(ctx,
		`SELECT ticker, available, reserved FROM holdings WHERE ticker = ?`, ticker)

	var h market.Holding
	var available, reserved string
	err := row.Scan(&h.Ticker, &available, &reserved)
	if err == sql.ErrNoRows {
		return nil, market.ErrHoldingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan holding: %w", err)
	}
	h.Available, h.Reserved = mustDecimal(available), mustDecimal(reserved)
	if err := s.decorateHolding(ctx, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

func (s *Store) decorateHolding(ctx context.Context, h *market.Holding) error {
	h.AvailableFormatted = market.FormatQuantity(h.Available)
	asset, err := s.GetAsset(ctx, h.Ticker)
	if err == market.ErrAssetNotFound {
		h.ValueUSDFormatted = market.FormatUSD(decimal.Zero)
		return nil
	}
	if err != nil {
		return err
	}
	h.ValueUSDFormatted = market.FormatUSD(h.Available.Mul(asset.PriceUSD))
	return nil
}

// adjustHolding applies a delta to the available quantity inside tx,
// creating the row on a positive first credit and refusing to overdraw.
func adjustHolding(ctx context.Context, tx *sql.Tx, ticker string, delta decimal.Decimal) error {
	var available string
	err := tx.QueryRowContext(ctx,
		`SELECT available FROM holdings WHERE ticker = ?`, ticker).Scan(&available)
	if err == sql.ErrNoRows {
		if delta.Sign() < 0 {
			return market.ErrInsufficientFunds
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO holdings (ticker, available) VALUES (?, ?)`,
			ticker, delta.String())
		return err
	}
	if err != nil {
		return fmt.Errorf("read holding %s: %w", ticker, err)
	}

	next := mustDecimal(available).Add(delta)
	if next.Sign() < 0 {
		return market.ErrInsufficientFunds
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE holdings SET available = ? WHERE ticker = ?`, next.String(), ticker)
	return err
}

// moveToReserved shifts quantity from available to reserved inside tx,
// failing when the available balance does not cover it.
func moveToReserved(ctx context.Context, tx *sql.Tx, ticker string, qty decimal.Decimal) error {
	var available, reserved string
	err := tx.QueryRowContext(ctx,
		`SELECT available, reserved FROM holdings WHERE ticker = ?`, ticker).Scan(&available, &reserved)
	if err == sql.ErrNoRows {
		return market.ErrInsufficientFunds
	}
	if err != nil {
		return fmt.Errorf("read holding %s: %w", ticker, err)
	}

	nextAvail := mustDecimal(available).Sub(qty)
	if nextAvail.Sign() < 0 {
		return market.ErrInsufficientFunds
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE holdings SET available = ?, reserved = ? WHERE ticker = ?`,
		nextAvail.String(), mustDecimal(reserved).Add(qty).String(), ticker)
	return err
}

// releaseReserved moves quantity back from reserved to available inside tx.
// Releasing more than is reserved clamps to zero instead of going negative.
func releaseReserved(ctx context.Context, tx *sql.Tx, ticker string, qty decimal.Decimal) error {
	var available, reserved string
	err := tx.QueryRowContext(ctx,
		`SELECT available, reserved FROM holdings WHERE ticker = ?`, ticker).Scan(&available, &reserved)
	if err != nil {
		return fmt.Errorf("read holding %s: %w", ticker, err)
	}

	rsv := mustDecimal(reserved)
	if qty.GreaterThan(rsv) {
		qty = rsv
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE holdings SET available = ?, reserved = ? WHERE ticker = ?`,
		mustDecimal(available).Add(qty).String(), rsv.Sub(qty).String(), ticker)
	return err
}
