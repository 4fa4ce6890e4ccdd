package ledger

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rksahai/tradehook/journal"
)

var (
	// ErrDuplicatePosition means Open was called with an id already in
	// the ledger. Open fails closed rather than overwriting: silently
	// losing the prior position's state is worse than rejecting the
	// signal.
	ErrDuplicatePosition = errors.New("ledger: duplicate position id")

	// ErrNotFound means the position id is unknown to this ledger.
	ErrNotFound = errors.New("ledger: position not found")

	// ErrAlreadyClosed means the position has already been closed.
	ErrAlreadyClosed = errors.New("ledger: position already closed")
)

// Ledger is the process-wide store of positions, per-day stats, and
// the append-only trade log. It is memory-resident for the process
// lifetime; the journal is an optional best-effort audit sink.
//
// One mutex guards all state. Throughput is a handful of webhook
// signals per day, so finer locking buys nothing.
type Ledger struct {
	mu        sync.Mutex
	loc       *time.Location
	now       func() time.Time
	positions map[string]*Position
	days      map[string]*DayStats
	log       []TradeLogEntry
	journal   journal.Journal
	logger    *zap.Logger
}

// New builds an empty ledger keyed to the given locale's calendar
// days. A nil journal disables auditing; a nil logger is silent.
func New(loc *time.Location, j journal.Journal, logger *zap.Logger) *Ledger {
	if loc == nil {
		loc = time.UTC
	}
	if j == nil {
		j = journal.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{
		loc:       loc,
		now:       time.Now,
		positions: make(map[string]*Position),
		days:      make(map[string]*DayStats),
		journal:   j,
		logger:    logger,
	}
}

// SetClock replaces the ledger's clock. Test hook.
func (l *Ledger) SetClock(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}

func (l *Ledger) today() string {
	return l.now().In(l.loc).Format("2006-01-02")
}

// dayLocked lazily creates today's zeroed stats entry. Caller holds mu.
func (l *Ledger) dayLocked(date string) *DayStats {
	day, ok := l.days[date]
	if !ok {
		day = &DayStats{}
		l.days[date] = day
	}
	return day
}

// Open records a new position as OPEN with the current timestamp and
// counts it against today's trade total. The id must be unique for the
// life of the ledger.
func (l *Ledger) Open(pos Position) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if pos.ID == "" {
		return fmt.Errorf("open position: empty id")
	}
	if _, exists := l.positions[pos.ID]; exists {
		return fmt.Errorf("open position %q: %w", pos.ID, ErrDuplicatePosition)
	}

	pos.Status = StatusOpen
	pos.EntryTime = l.now().In(l.loc)
	l.positions[pos.ID] = &pos

	l.dayLocked(l.today()).TotalTrades++

	l.logger.Info("position opened",
		zap.String("position_id", pos.ID),
		zap.String("symbol", pos.Symbol),
		zap.Float64("entry_price", pos.EntryPrice),
		zap.Int("quantity", pos.Quantity))
	return nil
}

// Close transitions a position OPEN -> CLOSED, computes its P&L, and
// updates today's aggregates. Closing an unknown or already-closed
// position mutates nothing.
//
// P&L is (exit - entry) * quantity for calls and puts alike: prices
// here are option premiums, and a long premium gains when the premium
// rises regardless of option type.
func (l *Ledger) Close(id string, exitPrice float64) (float64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	pos, ok := l.positions[id]
	if !ok {
		return 0, fmt.Errorf("close position %q: %w", id, ErrNotFound)
	}
	if pos.Status == StatusClosed {
		return 0, fmt.Errorf("close position %q: %w", id, ErrAlreadyClosed)
	}

	now := l.now().In(l.loc)
	pnl := (exitPrice - pos.EntryPrice) * float64(pos.Quantity)

	pos.Status = StatusClosed
	pos.ExitPrice = exitPrice
	pos.ExitTime = now
	pos.PnL = pnl

	date := l.today()
	day := l.dayLocked(date)
	day.ClosedTrades++
	day.TotalPnL += pnl

	// A flat close counts as a loss: it consumed a trade slot and paid
	// costs without producing anything.
	if pnl > 0 {
		day.Winners++
		day.GrossProfit += pnl
		day.ConsecutiveWins++
		day.ConsecutiveLosses = 0
	} else {
		day.Losers++
		day.GrossLoss += -pnl
		day.ConsecutiveLosses++
		day.ConsecutiveWins = 0
	}

	l.log = append(l.log, TradeLogEntry{
		PositionID: id,
		Symbol:     pos.Symbol,
		Entry:      pos.EntryPrice,
		Exit:       exitPrice,
		PnL:        pnl,
	})

	l.auditLocked(pos, date, *day, now)

	l.logger.Info("position closed",
		zap.String("position_id", id),
		zap.Float64("exit_price", exitPrice),
		zap.Float64("pnl", pnl))
	return pnl, nil
}

// auditLocked writes the trade and a stats snapshot to the journal.
// Failures are logged, never surfaced: the in-memory ledger already
// holds the truth.
func (l *Ledger) auditLocked(pos *Position, date string, day DayStats, now time.Time) {
	err := l.journal.RecordTrade(journal.TradeRecord{
		PositionID: pos.ID,
		Symbol:     pos.Symbol,
		Quantity:   pos.Quantity,
		EntryPrice: pos.EntryPrice,
		ExitPrice:  pos.ExitPrice,
		OpenTime:   pos.EntryTime,
		CloseTime:  pos.ExitTime,
		PnL:        pos.PnL,
	})
	if err != nil {
		l.logger.Error("journal trade write failed", zap.String("position_id", pos.ID), zap.Error(err))
	}

	err = l.journal.RecordDayStats(journal.DayStatsRecord{
		Date:         date,
		RecordedAt:   now,
		TotalTrades:  day.TotalTrades,
		ClosedTrades: day.ClosedTrades,
		Winners:      day.Winners,
		Losers:       day.Losers,
		TotalPnL:     day.TotalPnL,
		GrossProfit:  day.GrossProfit,
		GrossLoss:    day.GrossLoss,
	})
	if err != nil {
		l.logger.Error("journal stats write failed", zap.String("date", date), zap.Error(err))
	}
}

// Get returns a snapshot of the position, if known.
func (l *Ledger) Get(id string) (Position, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	pos, ok := l.positions[id]
	if !ok {
		return Position{}, false
	}
	return *pos, true
}

// OpenPositions returns a snapshot of every position still OPEN.
func (l *Ledger) OpenPositions() map[string]Position {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(map[string]Position)
	for id, pos := range l.positions {
		if pos.Status == StatusOpen {
			out[id] = *pos
		}
	}
	return out
}

// TodayStats returns today's aggregates with win rate and profit
// factor derived at read time. A day with no activity reads as zeroes.
func (l *Ledger) TodayStats() DayReport {
	l.mu.Lock()
	defer l.mu.Unlock()

	date := l.today()
	return l.dayLocked(date).report(date)
}

// TradeLog returns the ordered append-only log of closed trades.
func (l *Ledger) TradeLog() []TradeLogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]TradeLogEntry, len(l.log))
	copy(out, l.log)
	return out
}
