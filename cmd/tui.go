package cmd

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/coinview/coinview/internal/client"
	"github.com/coinview/coinview/internal/market"
	"github.com/coinview/coinview/internal/server"
	"github.com/coinview/coinview/internal/store"
	"github.com/coinview/coinview/internal/tui"
	"github.com/coinview/coinview/internal/viewstate"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive trading dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		serverAddr := flagServer

		if !cmd.Flags().Changed("server") {
			// Start embedded server in background
			st, err := store.Open(flagDB)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer st.Close()

			srv := server.New(st, "127.0.0.1:8886", logrus.StandardLogger())
			go func() {
				if err := srv.ListenAndServe(); err != nil {
					logrus.WithError(err).Error("embedded server error")
				}
			}()
			serverAddr = "http://127.0.0.1:8886"

			// Wait for server to be ready
			c := client.New(serverAddr)
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			for {
				if err := c.Ping(ctx); err == nil {
					break
				}
				if ctx.Err() != nil {
					return fmt.Errorf("timeout waiting for embedded server")
				}
				time.Sleep(50 * time.Millisecond)
			}
		}

		views := viewstate.NewStore(flagDataDir)
		opts := tui.Options{ViewState: views}
		if saved := views.Load(); saved != nil {
			opts.InitialTicker = saved.Ticker
			opts.InitialInterval = saved.Interval
		} else {
			opts.InitialTicker = "BTC"
			opts.InitialInterval = market.Interval1d
		}

		c := client.New(serverAddr)
		app := tui.NewApp(c, opts)
		p := tea.NewProgram(app, tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
