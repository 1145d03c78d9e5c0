package store

import (
	"context"
	"database/sql"
	"fmt"
)

func (s *Store) migrate(ctx context.Context) error {
	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		)
	`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	var version int
	err = tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	if version < 1 {
		if err := migrateV1(ctx, tx); err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}

	return tx.Commit()
}

func migrateV1(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		// Reference assets. Decimals are stored as text to keep arbitrary
		// precision through the round trip.
		`CREATE TABLE IF NOT EXISTS assets (
			ticker     TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			price_usd  TEXT NOT NULL,
			change_24h TEXT NOT NULL DEFAULT '0'
		)`,

		// Candle series, synthesized per (ticker, interval) on first request.
		`CREATE TABLE IF NOT EXISTS candles (
			ticker   TEXT NOT NULL REFERENCES assets(ticker),
			interval TEXT NOT NULL,
			ts       TEXT NOT NULL,
			open     TEXT NOT NULL,
			high     TEXT NOT NULL,
			low      TEXT NOT NULL,
			close    TEXT NOT NULL,
			volume   TEXT NOT NULL,
			PRIMARY KEY (ticker, interval, ts)
		)`,

		// The demo wallet. Reserved quantity is committed to open orders.
		`CREATE TABLE IF NOT EXISTS holdings (
			ticker    TEXT PRIMARY KEY,
			available TEXT NOT NULL,
			reserved  TEXT NOT NULL DEFAULT '0'
		)`,

		`CREATE TABLE IF NOT EXISTS orders (
			id            TEXT PRIMARY KEY,
			pair          TEXT NOT NULL,
			direction     TEXT NOT NULL CHECK (direction IN ('buy','sell')),
			type          TEXT NOT NULL CHECK (type IN ('market','limit','stop-limit')),
			trigger_price TEXT NOT NULL DEFAULT '0',
			limit_price   TEXT NOT NULL DEFAULT '0',
			quantity      TEXT NOT NULL,
			from_ticker   TEXT NOT NULL,
			to_ticker     TEXT NOT NULL,
			status        TEXT NOT NULL CHECK (status IN ('open','filled','cancelled')),
			created_at    TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)`,

		// Executed-order history.
		`CREATE TABLE IF NOT EXISTS trades (
			id          TEXT PRIMARY KEY,
			pair        TEXT NOT NULL,
			direction   TEXT NOT NULL,
			quantity    TEXT NOT NULL,
			total_usd   TEXT NOT NULL,
			executed_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_executed ON trades(executed_at)`,

		`INSERT INTO schema_version (version) VALUES (1)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:60], err)
		}
	}

	// Seed reference assets with plausible base prices.
	seedAssets := []struct {
		ticker, name, price string
	}{
		{"BTC", "Bitcoin", "60000"},
		{"ETH", "Ethereum", "3200"},
		{"SOL", "Solana", "150"},
		{"ADA", "Cardano", "0.45"},
		{"XRP", "Ripple", "0.60"},
		{"DOGE", "Dogecoin", "0.12"},
		{"BNB", "BNB", "580"},
		{"USDT", "Tether", "1"},
	}
	for _, a := range seedAssets {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO assets (ticker, name, price_usd) VALUES (?, ?, ?)`,
			a.ticker, a.name, a.price,
		); err != nil {
			return fmt.Errorf("seed asset %s: %w", a.ticker, err)
		}
	}

	// Seed the demo wallet so a fresh install has something to trade with.
	seedHoldings := []struct {
		ticker, available string
	}{
		{"USDT", "25000"},
		{"BTC", "0.5"},
		{"ETH", "4"},
	}
	for _, h := range seedHoldings {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO holdings (ticker, available) VALUES (?, ?)`,
			h.ticker, h.available,
		); err != nil {
			return fmt.Errorf("seed holding %s: %w", h.ticker, err)
		}
	}

	return nil
}
