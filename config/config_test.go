package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("WEBHOOK_SECRET", "")
	path := writeConfig(t, `
webhook:
  secret: hook-secret
trading:
  capital: 250000
  max_trades_per_day: 6
  strike_selection: ITM1
journal:
  type: sqlite
  db_path: trades.db
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	// Explicit values win, defaults fill the rest.
	assert.Equal(t, "hook-secret", cfg.Webhook.Secret)
	assert.InDelta(t, 250000, cfg.Trading.Capital, 1e-9)
	assert.Equal(t, 6, cfg.Trading.MaxTradesPerDay)
	assert.Equal(t, "ITM1", cfg.Trading.StrikeSelection)
	assert.Equal(t, ":5000", cfg.Server.Addr)
	assert.InDelta(t, 1.5, cfg.Trading.SLMultiplier, 1e-9)
	assert.True(t, cfg.Trading.PaperTrading)
	assert.Equal(t, "sqlite", cfg.Journal.Type)
}

func TestEnvOverridesSecret(t *testing.T) {
	t.Setenv("WEBHOOK_SECRET", "from-env")
	t.Setenv("FYERS_APP_ID", "")
	t.Setenv("FYERS_ACCESS_TOKEN", "")

	path := writeConfig(t, `
webhook:
  secret: from-file
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Webhook.Secret)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"default plus secret is valid", func(c *Config) {}, ""},
		{"missing secret", func(c *Config) { c.Webhook.Secret = "" }, "webhook.secret"},
		{"zero capital", func(c *Config) { c.Trading.Capital = 0 }, "capital"},
		{"risk pct out of range", func(c *Config) { c.Trading.MaxRiskPerTrade = 150 }, "max_risk_per_trade"},
		{"zero trades per day", func(c *Config) { c.Trading.MaxTradesPerDay = 0 }, "max_trades_per_day"},
		{"live without credentials", func(c *Config) { c.Trading.PaperTrading = false }, "fyers"},
		{
			"live with credentials ok",
			func(c *Config) {
				c.Trading.PaperTrading = false
				c.Fyers.AppID = "APP-100"
				c.Fyers.AccessToken = "tok"
			},
			"",
		},
		{"bad timezone", func(c *Config) { c.Trading.Timezone = "Mars/Olympus" }, "timezone"},
		{"csv journal without files", func(c *Config) { c.Journal.Type = "csv" }, "trades_file"},
		{"unknown journal type", func(c *Config) { c.Journal.Type = "parquet" }, "journal.type"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			cfg.Webhook.Secret = "s3cret"
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestPolicyMapping(t *testing.T) {
	t.Parallel()

	cfg := Default()
	p := cfg.Policy()
	assert.InDelta(t, 100000, p.Capital, 1e-9)
	assert.InDelta(t, 2.0, p.MaxRiskPerTradePct, 1e-9)
	assert.InDelta(t, 5.0, p.MaxDailyLossPct, 1e-9)
	assert.Equal(t, 4, p.MaxTradesPerDay)
	assert.Equal(t, 3, p.MaxConsecutiveLosses)
	assert.InDelta(t, 2000, p.MaxTradeRisk(), 1e-9)
}

func TestDisplayMasksSecrets(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Webhook.Secret = "super-secret-hook"
	cfg.Fyers.AppID = "XA0921K-100"

	var buf bytes.Buffer
	cfg.Display(&buf)

	out := buf.String()
	assert.NotContains(t, out, "super-secret-hook")
	assert.Contains(t, out, "***hook")
	assert.Contains(t, out, "***-100")
	assert.Contains(t, out, "PAPER TRADING")
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("WEBHOOK_SECRET", "")
	path := filepath.Join(t.TempDir(), "out.yaml")

	cfg := Default()
	cfg.Webhook.Secret = "s3cret"
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Trading, loaded.Trading)
}
