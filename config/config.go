package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rksahai/tradehook/risk"
)

// Config is the complete service configuration. Loaded once at process
// start and treated as immutable afterwards.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Webhook WebhookConfig `yaml:"webhook"`
	Trading TradingConfig `yaml:"trading"`
	Fyers   FyersConfig   `yaml:"fyers"`
	Journal JournalConfig `yaml:"journal"`
	Log     LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type WebhookConfig struct {
	Secret string `yaml:"secret"`
}

// TradingConfig carries capital, risk limits, and contract selection.
// The trailing-stop fields are accepted and validated but not consumed
// by the signal pipeline; exits are managed upstream.
type TradingConfig struct {
	Strategy string `yaml:"strategy"`

	Capital         float64 `yaml:"capital"`
	MaxRiskPerTrade float64 `yaml:"max_risk_per_trade"` // % of capital
	MaxDailyLoss    float64 `yaml:"max_daily_loss"`     // % of capital
	MaxTradesPerDay int     `yaml:"max_trades_per_day"`

	SLMultiplier float64 `yaml:"sl_multiplier"` // ATR multiples
	TPMultiplier float64 `yaml:"tp_multiplier"`

	UseTrailingSL bool    `yaml:"use_trailing_sl"`
	TSLActivation float64 `yaml:"tsl_activation"`
	TSLOffset     float64 `yaml:"tsl_offset"`

	StrikeSelection string         `yaml:"strike_selection"` // ATM, ITM1, ITM2, OTM1, OTM2
	LotSizes        map[string]int `yaml:"lot_sizes"`

	PaperTrading bool   `yaml:"paper_trading"`
	Timezone     string `yaml:"timezone"`
}

type FyersConfig struct {
	AppID       string `yaml:"app_id"`
	AccessToken string `yaml:"access_token"`
}

type JournalConfig struct {
	Type       string `yaml:"type"` // "none", "csv" or "sqlite"
	TradesFile string `yaml:"trades_file,omitempty"`
	StatsFile  string `yaml:"stats_file,omitempty"`
	DBPath     string `yaml:"db_path,omitempty"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"`
}

// LoadFromFile loads YAML configuration, then applies environment
// overrides for the secrets. A .env file in the working directory is
// read first, so local runs need no exported variables.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// applyEnv lets the environment override secrets so they never have to
// live in the YAML file.
func (c *Config) applyEnv() {
	_ = godotenv.Load() // best-effort; absence is fine

	if v := os.Getenv("WEBHOOK_SECRET"); v != "" {
		c.Webhook.Secret = v
	}
	if v := os.Getenv("FYERS_APP_ID"); v != "" {
		c.Fyers.AppID = v
	}
	if v := os.Getenv("FYERS_ACCESS_TOKEN"); v != "" {
		c.Fyers.AccessToken = v
	}
}

// SaveToFile writes the config as YAML, used by `tradehook config --init`.
func (c *Config) SaveToFile(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration is runnable.
func (c *Config) Validate() error {
	if c.Webhook.Secret == "" {
		return fmt.Errorf("webhook.secret is required")
	}
	if c.Trading.Capital <= 0 {
		return fmt.Errorf("trading.capital must be positive")
	}
	if c.Trading.MaxRiskPerTrade <= 0 || c.Trading.MaxRiskPerTrade > 100 {
		return fmt.Errorf("trading.max_risk_per_trade must be a percentage in (0, 100]")
	}
	if c.Trading.MaxDailyLoss <= 0 || c.Trading.MaxDailyLoss > 100 {
		return fmt.Errorf("trading.max_daily_loss must be a percentage in (0, 100]")
	}
	if c.Trading.MaxTradesPerDay <= 0 {
		return fmt.Errorf("trading.max_trades_per_day must be positive")
	}
	if c.Trading.SLMultiplier <= 0 || c.Trading.TPMultiplier <= 0 {
		return fmt.Errorf("trading sl/tp multipliers must be positive")
	}
	if !c.Trading.PaperTrading {
		if c.Fyers.AppID == "" || c.Fyers.AccessToken == "" {
			return fmt.Errorf("fyers.app_id and fyers.access_token are required for live trading")
		}
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("trading.timezone: %w", err)
	}
	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.StatsFile == "" {
			return fmt.Errorf("journal trades_file and stats_file required for csv type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for sqlite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}
	return nil
}

// Location resolves the trading calendar's timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Trading.Timezone)
}

// Policy maps the trading limits onto the risk engine's policy.
func (c *Config) Policy() risk.Policy {
	return risk.Policy{
		Capital:              c.Trading.Capital,
		MaxRiskPerTradePct:   c.Trading.MaxRiskPerTrade,
		MaxDailyLossPct:      c.Trading.MaxDailyLoss,
		MaxTradesPerDay:      c.Trading.MaxTradesPerDay,
		MaxConsecutiveLosses: 3,
	}
}

// Display prints the effective configuration with secrets masked.
func (c *Config) Display(w io.Writer) {
	mode := "LIVE TRADING"
	if c.Trading.PaperTrading {
		mode = "PAPER TRADING"
	}
	fmt.Fprintln(w, strings.Repeat("=", 50))
	fmt.Fprintln(w, "CONFIGURATION")
	fmt.Fprintln(w, strings.Repeat("=", 50))
	fmt.Fprintf(w, "Mode: %s\n", mode)
	fmt.Fprintf(w, "Capital: %.2f\n", c.Trading.Capital)
	fmt.Fprintf(w, "Max Risk/Trade: %.1f%%\n", c.Trading.MaxRiskPerTrade)
	fmt.Fprintf(w, "Max Daily Loss: %.1f%%\n", c.Trading.MaxDailyLoss)
	fmt.Fprintf(w, "Max Trades/Day: %d\n", c.Trading.MaxTradesPerDay)
	fmt.Fprintf(w, "Strike: %s\n", c.Trading.StrikeSelection)
	fmt.Fprintf(w, "Webhook Secret: %s\n", mask(c.Webhook.Secret))
	fmt.Fprintf(w, "Fyers App ID: %s\n", mask(c.Fyers.AppID))
	fmt.Fprintln(w, strings.Repeat("=", 50))
}

// mask hides all but the last four characters of a secret.
func mask(s string) string {
	if s == "" {
		return "(unset)"
	}
	if len(s) <= 4 {
		return "***"
	}
	return "***" + s[len(s)-4:]
}

// Default returns a configuration with the reference defaults: paper
// trading against NSE weekly index options in IST.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: ":5000",
		},
		Trading: TradingConfig{
			Strategy:        "CPR",
			Capital:         100000,
			MaxRiskPerTrade: 2.0,
			MaxDailyLoss:    5.0,
			MaxTradesPerDay: 4,
			SLMultiplier:    1.5,
			TPMultiplier:    3.0,
			UseTrailingSL:   true,
			TSLActivation:   1.5,
			TSLOffset:       1.0,
			StrikeSelection: "ATM",
			LotSizes: map[string]int{
				"NIFTY":     50,
				"BANKNIFTY": 15,
				"FINNIFTY":  40,
				"SENSEX":    10,
			},
			PaperTrading: true,
			Timezone:     "Asia/Kolkata",
		},
		Journal: JournalConfig{
			Type: "none",
		},
		Log: LogConfig{
			Level: "info",
			Dir:   "./logs",
		},
	}
}
