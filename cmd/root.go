package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	flagServer  string
	flagDB      string
	flagDataDir string
)

var rootCmd = &cobra.Command{
	Use:   "coinview",
	Short: "Terminal dashboard for a demo crypto exchange",
	Long:  "A crypto trading dashboard backed by SQLite: candle charts, a buy/sell order form, a demo wallet, and an order book, all in the terminal.",
}

func init() {
	// A .env file in the working directory can pre-set any COINVIEW_* value.
	godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&flagServer, "server", envOr("COINVIEW_SERVER", "http://localhost:8886"), "Server address")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", envOr("COINVIEW_DB", "coinview.db"), "SQLite database path")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", envOr("COINVIEW_DATA_DIR", "."), "Directory for the saved view state")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func Execute() error {
	return rootCmd.Execute()
}
