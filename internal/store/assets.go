package store

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"

	"github.com/shopspring/decimal"

	"github.com/coinview/coinview/internal/market"
)

func (s *Store) ListAssets(ctx context.Context) ([]market.Asset, error) {
	rows, err := s.reader.QueryContext(ctx,
		`SELECT ticker, name, price_usd, change_24h FROM assets ORDER BY ticker`)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	var assets []market.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

func (s *Store) GetAsset(ctx context.Context, ticker string) (*market.Asset, error) {
	row := s.reader.QueryRowContext(ctx,
		`SELECT ticker, name, price_usd, change_24h FROM assets WHERE ticker = ?`, ticker)

	var a market.Asset
	var price, change string
	err := row.Scan(&a.Ticker, &a.Name, &price, &change)
	if err == sql.ErrNoRows {
		return nil, market.ErrAssetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan asset: %w", err)
	}
	a.PriceUSD, a.Change24h = mustDecimal(price), mustDecimal(change)
	return &a, nil
}

// JitterPrices nudges every asset price by up to ±1.5% and rolls the 24h
// change figure, standing in for a live market-data feed. The quote coin is
// pinned at 1.
func (s *Store) JitterPrices(ctx context.Context) error {
	assets, err := s.ListAssets(ctx)
	if err != nil {
		return err
	}

	for _, a := range assets {
		if a.Ticker == market.QuoteTicker {
			continue
		}
		factor := decimal.NewFromFloat(1 + (rand.Float64()-0.5)*0.03)
		newPrice := a.PriceUSD.Mul(factor)
		change := newPrice.Sub(a.PriceUSD).Div(a.PriceUSD).Mul(decimal.NewFromInt(100)).Add(a.Change24h)

		if _, err := s.writer.ExecContext(ctx,
			`UPDATE assets SET price_usd = ?, change_24h = ? WHERE ticker = ?`,
			newPrice.String(), change.Round(4).String(), a.Ticker,
		); err != nil {
			return fmt.Errorf("update price %s: %w", a.Ticker, err)
		}
	}
	return nil
}

func scanAsset(rows *sql.Rows) (market.Asset, error) {
	var a market.Asset
	var price, change string
	if err := rows.Scan(&a.Ticker, &a.Name, &price, &change); err != nil {
		return a, fmt.Errorf("scan asset row: %w", err)
	}
	a.PriceUSD, a.Change24h = mustDecimal(price), mustDecimal(change)
	return a, nil
}

// mustDecimal parses a decimal column written by this store. A value that
// does not parse means the row was corrupted outside the application; it is
// read as zero rather than failing the whole listing.
func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
