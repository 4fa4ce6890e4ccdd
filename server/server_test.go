package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rksahai/tradehook/broker"
	"github.com/rksahai/tradehook/config"
	"github.com/rksahai/tradehook/ledger"
	"github.com/rksahai/tradehook/signal"
)

type stubExecutor struct {
	orderID string
	err     error
}

func (e *stubExecutor) PlaceOrder(ctx context.Context, req broker.OrderRequest) (broker.OrderResult, error) {
	if e.err != nil {
		return broker.OrderResult{}, e.err
	}
	return broker.OrderResult{OrderID: e.orderID}, nil
}

type stubQuoter struct {
	price float64
	err   error
}

func (q *stubQuoter) Quote(ctx context.Context, symbol string) (float64, error) {
	if q.err != nil {
		return 0, q.err
	}
	return q.price, nil
}

// Monday 2025-07-28: the weekly expiry resolves to Thursday the 31st.
var testClock = func() time.Time {
	return time.Date(2025, 7, 28, 10, 30, 0, 0, time.UTC)
}

func newTestServer(t *testing.T, mutate func(*config.Config)) (*Server, *ledger.Ledger) {
	t.Helper()

	cfg := config.Default()
	cfg.Webhook.Secret = "s3cret"
	cfg.Trading.Timezone = "UTC"
	if mutate != nil {
		mutate(cfg)
	}

	led := ledger.New(time.UTC, nil, nil)
	led.SetClock(testClock)

	proc := signal.New(cfg, time.UTC, led, &stubExecutor{orderID: "24072800042"}, &stubQuoter{price: 180}, nil)
	proc.SetClock(testClock)

	return New(cfg, time.UTC, led, proc, nil), led
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var decoded map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func buyCall() signal.Signal {
	return signal.Signal{
		Secret:     "s3cret",
		Instrument: "NIFTY",
		Action:     "BUY_CALL",
		EntryPrice: 21510,
		ATR:        20,
	}
}

func TestHome(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, nil)
	rec, body := doJSON(t, srv.Handler(), http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "active", body["status"])
	assert.Equal(t, "paper_trading", body["mode"])
	assert.Equal(t, Version, body["version"])
	assert.Contains(t, body, "today_stats")
}

func TestWebhookPaperTrade(t *testing.T) {
	t.Parallel()

	srv, led := newTestServer(t, nil)
	rec, body := doJSON(t, srv.Handler(), http.MethodPost, "/webhook", buyCall())

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "paper_trading", body["mode"])
	assert.NotContains(t, body, "order_id")

	trade, ok := body["trade"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "CPR_NIFTY_21500CE_103000", trade["position_id"])
	assert.Equal(t, "NSE:NIFTY31JUL2521500CE", trade["symbol"])

	assert.Equal(t, 1, led.TodayStats().TotalTrades)
}

func TestWebhookLiveTrade(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, func(cfg *config.Config) {
		cfg.Trading.PaperTrading = false
		cfg.Fyers.AppID = "APP-100"
		cfg.Fyers.AccessToken = "tok"
	})
	rec, body := doJSON(t, srv.Handler(), http.MethodPost, "/webhook", buyCall())

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "live_trading", body["mode"])
	assert.Equal(t, "24072800042", body["order_id"])
}

func TestWebhookBadSecret(t *testing.T) {
	t.Parallel()

	srv, led := newTestServer(t, nil)
	sig := buyCall()
	sig.Secret = "wrong"
	rec, body := doJSON(t, srv.Handler(), http.MethodPost, "/webhook", sig)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "Unauthorized", body["message"])
	assert.Zero(t, led.TodayStats().TotalTrades)
}

func TestWebhookMalformedBody(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhookInvalidSignal(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, nil)
	sig := buyCall()
	sig.Action = "SELL_EVERYTHING"
	rec, body := doJSON(t, srv.Handler(), http.MethodPost, "/webhook", sig)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error", body["status"])
	assert.Contains(t, body["message"], "action")
}

func TestWebhookRiskBlocked(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, func(cfg *config.Config) {
		cfg.Trading.MaxTradesPerDay = 1
	})
	h := srv.Handler()

	rec, _ := doJSON(t, h, http.MethodPost, "/webhook", buyCall())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, body := doJSON(t, h, http.MethodPost, "/webhook", buyCall())
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "blocked", body["status"])
	assert.Equal(t, "Daily limit reached (1)", body["message"])
}

func TestPositionsAndStats(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, nil)
	h := srv.Handler()

	rec, body := doJSON(t, h, http.MethodGet, "/positions", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, body["count"])

	rec, _ = doJSON(t, h, http.MethodPost, "/webhook", buyCall())
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body = doJSON(t, h, http.MethodGet, "/positions", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, body["count"])

	rec, body = doJSON(t, h, http.MethodGet, "/stats", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	stats, ok := body["stats"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 1, stats["total_trades"])
}

func TestManualClose(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, nil)
	h := srv.Handler()

	rec, body := doJSON(t, h, http.MethodPost, "/webhook", buyCall())
	require.Equal(t, http.StatusOK, rec.Code)
	trade := body["trade"].(map[string]any)
	id := trade["position_id"].(string)

	rec, body = doJSON(t, h, http.MethodPost, "/close/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "success", body["status"])
	// quote 180 against entry 21510 for 50 lots
	assert.InDelta(t, (180-21510)*50, body["pnl"].(float64), 1e-9)

	rec, body = doJSON(t, h, http.MethodPost, "/close/"+id, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Position already closed", body["message"])
}

func TestManualCloseUnknown(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, nil)
	rec, body := doJSON(t, srv.Handler(), http.MethodPost, "/close/NOPE", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Position not found", body["message"])
}

func TestTrades(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, nil)
	h := srv.Handler()

	rec, _ := doJSON(t, h, http.MethodPost, "/webhook", buyCall())
	require.Equal(t, http.StatusOK, rec.Code)
	rec, body := doJSON(t, h, http.MethodGet, "/trades", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, body["count"])
}

func TestDashboard(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, nil)
	h := srv.Handler()

	rec, _ := doJSON(t, h, http.MethodPost, "/webhook", buyCall())
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	html := rec.Body.String()
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, html, "PAPER TRADING")
	assert.Contains(t, html, "NSE:NIFTY31JUL2521500CE")
}

func TestNotFound(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, nil)
	rec, body := doJSON(t, srv.Handler(), http.MethodGet, "/nope", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Endpoint not found", body["message"])
}

func TestPanicRecovery(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, nil)

	// A nil processor dereference inside a handler must surface as a
	// generic 500, not kill the server.
	srv.processor = nil
	rec, body := doJSON(t, srv.Handler(), http.MethodPost, "/webhook", buyCall())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", body["message"])
}

func TestWebhookExecutionFailure(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Webhook.Secret = "s3cret"
	cfg.Trading.Timezone = "UTC"
	cfg.Trading.PaperTrading = false

	led := ledger.New(time.UTC, nil, nil)
	led.SetClock(testClock)

	proc := signal.New(cfg, time.UTC, led,
		&stubExecutor{err: fmt.Errorf("margin shortfall")},
		&stubQuoter{price: 180}, nil)
	proc.SetClock(testClock)

	srv := New(cfg, time.UTC, led, proc, nil)
	rec, body := doJSON(t, srv.Handler(), http.MethodPost, "/webhook", buyCall())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "error", body["status"])
	assert.Contains(t, body["message"], "margin shortfall")
	assert.Zero(t, led.TodayStats().TotalTrades, "failed orders must not be recorded")
}
