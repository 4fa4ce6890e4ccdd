package cmd

import (
	"context"
	"fmt"
	"os"
	osignal "os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rksahai/tradehook/broker"
	"github.com/rksahai/tradehook/broker/fyers"
	"github.com/rksahai/tradehook/broker/sim"
	"github.com/rksahai/tradehook/config"
	"github.com/rksahai/tradehook/journal"
	"github.com/rksahai/tradehook/ledger"
	"github.com/rksahai/tradehook/logger"
	"github.com/rksahai/tradehook/server"
	"github.com/rksahai/tradehook/signal"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the webhook trading server",
	Long: `Start the HTTP server and process incoming trading signals.

The config file selects paper or live mode, risk limits, and the
journal backend. Secrets come from the environment (or a .env file):
WEBHOOK_SECRET, FYERS_APP_ID, FYERS_ACCESS_TOKEN.

Example:
  tradehook serve --config tradehook.yaml`,
	RunE: runServe,
}

var serveConfigPath string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "f", "tradehook.yaml", "path to config file")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(serveConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Log.Dir, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync()

	loc, err := cfg.Location()
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}

	j, err := openJournal(cfg)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer j.Close()

	led := ledger.New(loc, j, log.Named("ledger"))

	exec, quoter, err := openBroker(cfg, led, log)
	if err != nil {
		return err
	}

	proc := signal.New(cfg, loc, led, exec, quoter, log.Named("signal"))
	srv := server.New(cfg, loc, led, proc, log.Named("server"))

	mode := "LIVE"
	if cfg.Trading.PaperTrading {
		mode = "PAPER"
	}
	log.Info("tradehook starting",
		zap.String("version", server.Version),
		zap.String("mode", mode),
		zap.String("strategy", cfg.Trading.Strategy),
		zap.Float64("capital", cfg.Trading.Capital),
		zap.Float64("max_risk_per_trade_pct", cfg.Trading.MaxRiskPerTrade),
		zap.Float64("max_daily_loss_pct", cfg.Trading.MaxDailyLoss),
		zap.Int("max_trades_per_day", cfg.Trading.MaxTradesPerDay),
		zap.String("journal", cfg.Journal.Type),
		zap.String("timezone", cfg.Trading.Timezone))

	ctx, stop := osignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	log.Info("tradehook stopped")
	return nil
}

func openJournal(cfg *config.Config) (journal.Journal, error) {
	switch cfg.Journal.Type {
	case "csv":
		return journal.NewCSV(cfg.Journal.TradesFile, cfg.Journal.StatsFile)
	case "sqlite":
		return journal.NewSQLite(cfg.Journal.DBPath)
	default:
		return journal.Nop{}, nil
	}
}

// openBroker picks the trading venue. Paper mode never touches FYERS;
// live mode verifies the credentials up front with a profile call so a
// stale token fails at startup instead of on the first signal.
func openBroker(cfg *config.Config, led *ledger.Ledger, log *zap.Logger) (broker.OrderExecutor, broker.Quoter, error) {
	if cfg.Trading.PaperTrading {
		quoter := sim.Quoter{Ref: func(symbol string) (float64, bool) {
			for _, pos := range led.OpenPositions() {
				if pos.Symbol == symbol {
					return pos.EntryPrice, true
				}
			}
			return 0, false
		}}
		return sim.NewExecutor(), quoter, nil
	}

	client := fyers.NewClient(cfg.Fyers.AppID, cfg.Fyers.AccessToken)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	name, err := client.Profile(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("fyers credentials check: %w", err)
	}
	log.Info("fyers authenticated", zap.String("account", name))

	return client, client, nil
}
