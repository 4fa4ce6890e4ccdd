// Package server is the HTTP transport: the webhook endpoint, the
// read-only query endpoints, manual close, the dashboard, and metrics.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/rksahai/tradehook/config"
	"github.com/rksahai/tradehook/ledger"
	"github.com/rksahai/tradehook/signal"
)

const Version = "1.0.0"

type Server struct {
	cfg       *config.Config
	loc       *time.Location
	ledger    *ledger.Ledger
	processor *signal.Processor
	logger    *zap.Logger
	http      *http.Server
}

func New(cfg *config.Config, loc *time.Location, led *ledger.Ledger, proc *signal.Processor, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cfg:       cfg,
		loc:       loc,
		ledger:    led,
		processor: proc,
		logger:    logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("POST /webhook", s.handleWebhook)
	mux.HandleFunc("GET /positions", s.handlePositions)
	mux.HandleFunc("GET /stats", s.handleStats)
	mux.HandleFunc("GET /trades", s.handleTrades)
	mux.HandleFunc("POST /close/{id}", s.handleClose)
	mux.HandleFunc("GET /dashboard", s.handleDashboard)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("/", s.handleNotFound)

	s.http = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      s.recoverPanics(mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// Handler exposes the routed handler. Test hook.
func (s *Server) Handler() http.Handler { return s.http.Handler }

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.logger.Info("listening", zap.String("addr", s.cfg.Server.Addr))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}

// recoverPanics is the outermost boundary: programming errors become a
// generic 500 with the detail kept server-side.
func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic in handler",
					zap.Any("panic", rec),
					zap.String("path", r.URL.Path),
					zap.Stack("stack"))
				s.writeJSON(w, http.StatusInternalServerError, map[string]any{
					"status": "error", "message": "Internal server error",
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("write response", zap.Error(err))
	}
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	stats := s.ledger.TodayStats()

	mode := "live_trading"
	if s.cfg.Trading.PaperTrading {
		mode = "paper_trading"
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":        "active",
		"service":       "tradehook",
		"strategy":      s.cfg.Trading.Strategy,
		"version":       Version,
		"broker":        "FYERS",
		"mode":          mode,
		"paper_trading": s.cfg.Trading.PaperTrading,
		"timestamp":     time.Now().In(s.loc).Format(time.RFC3339),
		"today_stats": map[string]any{
			"trades":   stats.TotalTrades,
			"pnl":      stats.TotalPnL,
			"win_rate": stats.WinRate,
		},
	})
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	metricSignalsReceived.Inc()

	var sig signal.Signal
	if err := json.NewDecoder(r.Body).Decode(&sig); err != nil {
		metricSignalsRejected.Inc()
		s.writeJSON(w, http.StatusBadRequest, map[string]any{
			"status": "error", "message": "Malformed JSON body",
		})
		return
	}

	res, err := s.processor.Process(r.Context(), sig)
	if err != nil {
		s.writeWebhookError(w, err)
		return
	}

	metricTradesRecorded.Inc()
	body := map[string]any{
		"status": "success",
		"mode":   res.Mode,
		"trade":  res.Trade,
	}
	if res.OrderID != "" {
		body["order_id"] = res.OrderID
	}
	s.writeJSON(w, http.StatusOK, body)
}

// writeWebhookError maps the pipeline's error taxonomy onto HTTP
// statuses. Anything unrecognized is an internal fault and stays
// generic toward the caller.
func (s *Server) writeWebhookError(w http.ResponseWriter, err error) {
	var blocked *signal.BlockedError
	switch {
	case errors.Is(err, signal.ErrUnauthorized):
		metricSignalsRejected.Inc()
		s.writeJSON(w, http.StatusUnauthorized, map[string]any{
			"status": "error", "message": "Unauthorized",
		})
	case errors.As(err, &blocked):
		metricSignalsBlocked.Inc()
		s.writeJSON(w, http.StatusTooManyRequests, map[string]any{
			"status": "blocked", "message": blocked.Reason,
		})
	case errors.Is(err, signal.ErrInvalidSignal):
		metricSignalsRejected.Inc()
		s.writeJSON(w, http.StatusBadRequest, map[string]any{
			"status": "error", "message": err.Error(),
		})
	case errors.Is(err, signal.ErrExecution):
		metricOrdersFailed.Inc()
		s.writeJSON(w, http.StatusInternalServerError, map[string]any{
			"status": "error", "message": err.Error(),
		})
	default:
		s.logger.Error("webhook failed", zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, map[string]any{
			"status": "error", "message": "Internal server error",
		})
	}
}

func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	positions := s.ledger.OpenPositions()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "success",
		"count":     len(positions),
		"positions": positions,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"stats":  s.ledger.TodayStats(),
	})
}

func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request) {
	trades := s.ledger.TradeLog()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"count":  len(trades),
		"trades": trades,
	})
}

func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	positionID := r.PathValue("id")

	pnl, err := s.processor.CloseManually(r.Context(), positionID)
	switch {
	case err == nil:
		metricPositionsClosed.Inc()
		s.writeJSON(w, http.StatusOK, map[string]any{
			"status": "success", "message": "Position closed", "pnl": pnl,
		})
	case errors.Is(err, ledger.ErrNotFound):
		s.writeJSON(w, http.StatusNotFound, map[string]any{
			"status": "error", "message": "Position not found",
		})
	case errors.Is(err, ledger.ErrAlreadyClosed):
		s.writeJSON(w, http.StatusBadRequest, map[string]any{
			"status": "error", "message": "Position already closed",
		})
	case errors.Is(err, signal.ErrExecution):
		s.writeJSON(w, http.StatusInternalServerError, map[string]any{
			"status": "error", "message": err.Error(),
		})
	default:
		s.logger.Error("manual close failed", zap.String("position_id", positionID), zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, map[string]any{
			"status": "error", "message": "Internal server error",
		})
	}
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusNotFound, map[string]any{
		"status": "error", "message": "Endpoint not found",
	})
}
