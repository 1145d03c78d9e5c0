package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coinview/coinview/internal/client"
	"github.com/coinview/coinview/internal/market"
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Show the demo wallet",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		holdings, err := c.Wallet(context.Background())
		if err != nil {
			return err
		}

		fmt.Printf("%-8s %18s %18s %14s\n", "ASSET", "AVAILABLE", "RESERVED", "VALUE")
		for _, h := range holdings {
			fmt.Printf("%-8s %18s %18s %14s\n",
				h.Ticker, h.AvailableFormatted, market.FormatQuantity(h.Reserved), h.ValueUSDFormatted)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(walletCmd)
}
