package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coinview/coinview/internal/client"
	"github.com/coinview/coinview/internal/market"
)

var marketsCmd = &cobra.Command{
	Use:   "markets",
	Short: "List tradable markets",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		assets, err := c.ListMarkets(context.Background())
		if err != nil {
			return err
		}

		fmt.Printf("%-12s %-20s %14s %10s\n", "PAIR", "NAME", "PRICE", "24H")
		for _, a := range assets {
			fmt.Printf("%-12s %-20s %14s %10s\n",
				market.Pair(a.Ticker), a.Name, market.FormatUSD(a.PriceUSD), market.FormatPercent(a.Change24h))
		}
		return nil
	},
}

var candlesCmd = &cobra.Command{
	Use:   "candles <ticker> [interval]",
	Short: "Print the OHLC series for one market",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		interval := market.Interval1d
		if len(args) == 2 {
			interval = market.ParseInterval(args[1])
		}

		candles, err := c.Candles(context.Background(), args[0], interval)
		if err != nil {
			return err
		}
		if len(candles) == 0 {
			fmt.Println("no chart data")
			return nil
		}

		fmt.Printf("%-20s %12s %12s %12s %12s\n", "TIME", "OPEN", "HIGH", "LOW", "CLOSE")
		for _, cd := range candles {
			fmt.Printf("%-20s %12s %12s %12s %12s\n",
				cd.Time.Format("2006-01-02 15:04"), cd.Open, cd.High, cd.Low, cd.Close)
		}
		return nil
	},
}

func init() {
	marketsCmd.AddCommand(candlesCmd)
	rootCmd.AddCommand(marketsCmd)
}
