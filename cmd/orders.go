package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/coinview/coinview/internal/client"
	"github.com/coinview/coinview/internal/market"
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List open orders",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		orders, err := c.OpenOrders(context.Background())
		if err != nil {
			return err
		}
		if len(orders) == 0 {
			fmt.Println("no open orders")
			return nil
		}

		fmt.Printf("%-38s %-12s %-6s %-10s %14s %16s\n", "ID", "PAIR", "SIDE", "TYPE", "TRIGGER", "QUANTITY")
		for _, o := range orders {
			fmt.Printf("%-38s %-12s %-6s %-10s %14s %16s\n",
				o.ID, o.Pair, strings.ToUpper(string(o.Direction)), o.Type,
				o.TriggerPrice, market.FormatQuantity(o.Quantity))
		}
		return nil
	},
}

var (
	orderDirection string
	orderType      string
	orderCounter   string
	orderTrigger   string
	orderLimit     string
)

var placeOrderCmd = &cobra.Command{
	Use:   "place <ticker> <quantity>",
	Short: "Place an order",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		qty, err := decimal.NewFromString(args[1])
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[1])
		}

		params := client.PlaceOrderParams{
			Direction:     market.Direction(orderDirection),
			Type:          market.OrderType(orderType),
			PrimaryTicker: args[0],
			CounterTicker: orderCounter,
			Quantity:      qty,
		}
		if orderTrigger != "" {
			if params.TriggerPrice, err = decimal.NewFromString(orderTrigger); err != nil {
				return fmt.Errorf("invalid trigger price %q", orderTrigger)
			}
		}
		if orderLimit != "" {
			if params.LimitPrice, err = decimal.NewFromString(orderLimit); err != nil {
				return fmt.Errorf("invalid limit price %q", orderLimit)
			}
		}

		order, err := c.PlaceOrder(context.Background(), params)
		if err != nil {
			return err
		}
		fmt.Printf("order %s: %s %s %s (%s)\n", order.Status, order.Direction, market.FormatQuantity(order.Quantity), order.Pair, order.ID)
		return nil
	},
}

var cancelOrderCmd = &cobra.Command{
	Use:   "cancel <order-id>",
	Short: "Cancel an open order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		result, err := c.CancelOrder(context.Background(), args[0])
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		if result.Holding != nil {
			fmt.Printf("%s available: %s\n", result.Holding.Ticker, result.Holding.AvailableFormatted)
		}
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show executed trades",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		trades, err := c.History(context.Background())
		if err != nil {
			return err
		}
		if len(trades) == 0 {
			fmt.Println("no trades yet")
			return nil
		}

		fmt.Printf("%-12s %-6s %16s %14s  %s\n", "PAIR", "SIDE", "QUANTITY", "TOTAL", "EXECUTED")
		for _, t := range trades {
			fmt.Printf("%-12s %-6s %16s %14s  %s\n",
				t.Pair, t.DirectionFormatted, t.QuantityFormatted, t.TotalUSDFormatted, t.ExecutedAtDisplay)
		}
		return nil
	},
}

func init() {
	placeOrderCmd.Flags().StringVar(&orderDirection, "side", "buy", "Order side (buy or sell)")
	placeOrderCmd.Flags().StringVar(&orderType, "type", "market", "Order type (market, limit, stop-limit)")
	placeOrderCmd.Flags().StringVar(&orderCounter, "counter", market.QuoteTicker, "Counter asset ticker")
	placeOrderCmd.Flags().StringVar(&orderTrigger, "trigger", "", "Trigger price")
	placeOrderCmd.Flags().StringVar(&orderLimit, "limit", "", "Limit price")

	ordersCmd.AddCommand(placeOrderCmd)
	ordersCmd.AddCommand(cancelOrderCmd)
	rootCmd.AddCommand(ordersCmd)
	rootCmd.AddCommand(historyCmd)
}
