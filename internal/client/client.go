// Package client is a typed HTTP client for the coinview REST API, used by
// both the TUI and the plain CLI commands.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/coinview/coinview/internal/market"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) ListMarkets(ctx context.Context) ([]market.Asset, error) {
	var result []market.Asset
	if err := c.get(ctx, "/api/v1/markets", &result); err != nil {
		return nil, err
	}
	return result, nil
}

// RefreshMarkets asks the server to re-quote every asset and returns the
// updated list.
func (c *Client) RefreshMarkets(ctx context.Context) ([]market.Asset, error) {
	var result []market.Asset
	if err := c.post(ctx, "/api/v1/markets/refresh", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Candles fetches the OHLCV series for one asset. An empty slice is a valid
// response and means the asset has no chartable data.
func (c *Client) Candles(ctx context.Context, ticker string, interval market.Interval) ([]market.Candle, error) {
	path := "/api/v1/markets/" + url.PathEscape(ticker) + "/candles/" + url.PathEscape(string(interval))
	var result []market.Candle
	if err := c.get(ctx, path, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) Wallet(ctx context.Context) ([]market.Holding, error) {
	var result []market.Holding
	if err := c.get(ctx, "/api/v1/wallet", &result); err != nil {
		return nil, err
	}
	return result, nil
}

type PlaceOrderParams struct {
	Direction     market.Direction
	Type          market.OrderType
	PrimaryTicker string
	CounterTicker string
	Quantity      decimal.Decimal
	TriggerPrice  decimal.Decimal
	LimitPrice    decimal.Decimal
}

func (c *Client) PlaceOrder(ctx context.Context, p PlaceOrderParams) (*market.Order, error) {
	body := map[string]any{
		"direction":      p.Direction,
		"type":           p.Type,
		"primary_ticker": p.PrimaryTicker,
		"counter_ticker": p.CounterTicker,
		"quantity":       p.Quantity,
		"trigger_price":  p.TriggerPrice,
		"limit_price":    p.LimitPrice,
	}
	var result market.Order
	if err := c.post(ctx, "/api/v1/orders", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) OpenOrders(ctx context.Context) ([]market.Order, error) {
	var result []market.Order
	if err := c.get(ctx, "/api/v1/orders", &result); err != nil {
		return nil, err
	}
	return result, nil
}

type CancelOrderResult struct {
	Message string          `json:"message"`
	Holding *market.Holding `json:"holding"`
}

// CancelOrder cancels one open order. The result carries the holding whose
// reservation was released, so callers can patch their wallet snapshot
// without waiting for the next poll.
func (c *Client) CancelOrder(ctx context.Context, id string) (*CancelOrderResult, error) {
	var result CancelOrderResult
	if err := c.post(ctx, "/api/v1/orders/"+url.PathEscape(id)+"/cancel", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) History(ctx context.Context) ([]market.Trade, error) {
	var result []market.Trade
	if err := c.get(ctx, "/api/v1/history", &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Ping checks if the server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/v1/markets", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.doRequest(req, result)
}

func (c *Client) post(ctx context.Context, path string, body any, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.doRequest(req, result)
}

type apiError struct {
	Error string `json:"error"`
}

func (c *Client) doRequest(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if json.Unmarshal(bodyBytes, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("server error (%d): %s", resp.StatusCode, string(bodyBytes))
	}

	if result != nil {
		if err := json.Unmarshal(bodyBytes, result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
