package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tradehook",
	Short: "Webhook-driven options trading service for NSE index options",
	Long: `Tradehook turns TradingView alerts into index option orders.

It provides:
  - A webhook endpoint that validates and executes incoming signals
  - ATR-based stop loss and take profit placement
  - Risk gating: per-trade risk, daily loss, trade count, loss streaks
  - A paper trading mode and a FYERS live trading mode
  - An in-memory position ledger with daily statistics
  - An optional trade journal (CSV or SQLite)`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
