// Package signal turns inbound webhook signals into recorded
// positions: validation, risk gating, contract resolution, and order
// execution.
package signal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rksahai/tradehook/broker"
	"github.com/rksahai/tradehook/config"
	"github.com/rksahai/tradehook/ledger"
	"github.com/rksahai/tradehook/market"
	"github.com/rksahai/tradehook/risk"
)

// Signal is the inbound webhook payload, typically a TradingView
// alert. Strike zero means derive it from the entry price.
type Signal struct {
	Secret     string  `json:"secret"`
	Instrument string  `json:"instrument"`
	Action     string  `json:"action"` // BUY_CALL or BUY_PUT
	Strike     float64 `json:"strike"`
	EntryPrice float64 `json:"entry_price"`
	ATR        float64 `json:"atr"`
}

// Result is the successful outcome of a processed signal.
type Result struct {
	Mode    string          `json:"mode"` // paper_trading or live_trading
	OrderID string          `json:"order_id,omitempty"`
	Trade   ledger.Position `json:"trade"`
}

const defaultOrderTimeout = 10 * time.Second

// Processor runs the signal-to-order pipeline. All state lives in the
// ledger; the processor itself is stateless and safe for concurrent
// use.
type Processor struct {
	trading config.TradingConfig
	secret  string
	policy  risk.Policy
	loc     *time.Location

	ledger   *ledger.Ledger
	executor broker.OrderExecutor
	quoter   broker.Quoter
	logger   *zap.Logger

	now          func() time.Time
	orderTimeout time.Duration
}

// New wires a processor. executor and quoter are the paper or live
// variants, chosen once at startup.
func New(cfg *config.Config, loc *time.Location, led *ledger.Ledger, exec broker.OrderExecutor, q broker.Quoter, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		trading:      cfg.Trading,
		secret:       cfg.Webhook.Secret,
		policy:       cfg.Policy(),
		loc:          loc,
		ledger:       led,
		executor:     exec,
		quoter:       q,
		logger:       logger,
		now:          time.Now,
		orderTimeout: defaultOrderTimeout,
	}
}

// SetClock replaces the processor's clock. Test hook.
func (p *Processor) SetClock(now func() time.Time) { p.now = now }

// Process runs one signal through the pipeline: secret check, daily
// admission gate, field validation, contract resolution, stop/target
// computation, per-trade risk gate, then execution and recording.
// Every rejection leaves the ledger untouched.
func (p *Processor) Process(ctx context.Context, sig Signal) (*Result, error) {
	if sig.Secret != p.secret {
		p.logger.Warn("unauthorized webhook attempt")
		return nil, ErrUnauthorized
	}

	stats := p.ledger.TodayStats()
	decision := risk.CanTrade(risk.DaySnapshot{
		TotalTrades:       stats.TotalTrades,
		TotalPnL:          stats.TotalPnL,
		ConsecutiveLosses: stats.ConsecutiveLosses,
	}, p.policy)
	if !decision.Allowed {
		p.logger.Warn("trade blocked", zap.String("reason", decision.Reason))
		return nil, &BlockedError{Reason: decision.Reason}
	}

	instrument := strings.ToUpper(strings.TrimSpace(sig.Instrument))
	action := strings.ToUpper(strings.TrimSpace(sig.Action))
	if instrument == "" || action == "" || sig.EntryPrice <= 0 || sig.ATR <= 0 {
		return nil, fmt.Errorf("%w: instrument, action, entry_price and atr are required", ErrInvalidSignal)
	}

	var optType market.OptionType
	switch action {
	case "BUY_CALL":
		optType = market.Call
	case "BUY_PUT":
		optType = market.Put
	default:
		return nil, fmt.Errorf("%w: unrecognized action %q", ErrInvalidSignal, action)
	}

	strike := int(sig.Strike)
	if strike == 0 {
		strike = market.StrikeFor(sig.EntryPrice, instrument, optType, market.StrikeMode(p.trading.StrikeSelection))
	}

	now := p.now().In(p.loc)
	expiry := market.NextExpiry(now)
	symbol, err := market.BuildSymbol(instrument, strike, optType, expiry)
	if err != nil {
		return nil, fmt.Errorf("resolve symbol: %w", err)
	}
	quantity := market.LotSize(instrument, p.trading.LotSizes)

	// Stops bracket the premium in the trade's favor: a put profits
	// when the underlying falls, so its levels invert.
	var stopLoss, takeProfit float64
	if optType == market.Call {
		stopLoss = sig.EntryPrice - sig.ATR*p.trading.SLMultiplier
		takeProfit = sig.EntryPrice + sig.ATR*p.trading.TPMultiplier
	} else {
		stopLoss = sig.EntryPrice + sig.ATR*p.trading.SLMultiplier
		takeProfit = sig.EntryPrice - sig.ATR*p.trading.TPMultiplier
	}

	positionRisk := sig.ATR * p.trading.SLMultiplier * float64(quantity)
	if !risk.CheckPositionRisk(positionRisk, p.policy) {
		reason := fmt.Sprintf("Position risk %.2f exceeds limit", positionRisk)
		p.logger.Warn("trade blocked", zap.String("reason", reason))
		return nil, &BlockedError{Reason: reason}
	}

	pos := ledger.Position{
		ID:         fmt.Sprintf("%s_%s_%d%s_%s", p.trading.Strategy, instrument, strike, optType, now.Format("150405")),
		Strategy:   p.trading.Strategy,
		Instrument: instrument,
		Symbol:     symbol,
		OptionType: optType,
		Strike:     strike,
		Expiry:     expiry,
		EntryPrice: sig.EntryPrice,
		Quantity:   quantity,
		StopLoss:   stopLoss,
		TakeProfit: takeProfit,
		Risk:       positionRisk,
	}

	if p.trading.PaperTrading {
		if err := p.ledger.Open(pos); err != nil {
			return nil, fmt.Errorf("record position: %w", err)
		}
		p.logger.Info("paper trade recorded, no order placed",
			zap.String("position_id", pos.ID), zap.String("symbol", symbol))
		rec, _ := p.ledger.Get(pos.ID)
		return &Result{Mode: "paper_trading", Trade: rec}, nil
	}

	// Live: the order must be confirmed before anything is recorded.
	// A timeout counts as not placed; recording a position the broker
	// may not hold is worse than missing one it does.
	orderCtx, cancel := context.WithTimeout(ctx, p.orderTimeout)
	defer cancel()

	fill, err := p.executor.PlaceOrder(orderCtx, broker.OrderRequest{
		Symbol:   symbol,
		Quantity: quantity,
		Side:     broker.Buy,
		Type:     broker.Market,
	})
	if err != nil {
		p.logger.Error("order failed", zap.String("symbol", symbol), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrExecution, err)
	}

	pos.OrderID = fill.OrderID
	if err := p.ledger.Open(pos); err != nil {
		return nil, fmt.Errorf("record position: %w", err)
	}
	p.logger.Info("order placed",
		zap.String("position_id", pos.ID),
		zap.String("symbol", symbol),
		zap.String("order_id", fill.OrderID))
	rec, _ := p.ledger.Get(pos.ID)
	return &Result{Mode: "live_trading", OrderID: fill.OrderID, Trade: rec}, nil
}

// CloseManually closes an open position at a price supplied by the
// quote collaborator. Unknown and already-closed positions surface the
// ledger's errors without mutating anything.
func (p *Processor) CloseManually(ctx context.Context, positionID string) (float64, error) {
	pos, ok := p.ledger.Get(positionID)
	if !ok {
		return 0, fmt.Errorf("close %q: %w", positionID, ledger.ErrNotFound)
	}
	if pos.Status == ledger.StatusClosed {
		return 0, fmt.Errorf("close %q: %w", positionID, ledger.ErrAlreadyClosed)
	}

	quoteCtx, cancel := context.WithTimeout(ctx, p.orderTimeout)
	defer cancel()

	exitPrice, err := p.quoter.Quote(quoteCtx, pos.Symbol)
	if err != nil {
		return 0, fmt.Errorf("%w: quote %s: %v", ErrExecution, pos.Symbol, err)
	}

	pnl, err := p.ledger.Close(positionID, exitPrice)
	if err != nil {
		return 0, err
	}
	p.logger.Info("position closed manually",
		zap.String("position_id", positionID),
		zap.Float64("exit_price", exitPrice),
		zap.Float64("pnl", pnl))
	return pnl, nil
}
