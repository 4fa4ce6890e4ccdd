package journal

import "time"

// TradeRecord is the audit row written once per closed position.
type TradeRecord struct {
	PositionID string
	Symbol     string
	Quantity   int
	EntryPrice float64
	ExitPrice  float64
	OpenTime   time.Time
	CloseTime  time.Time
	PnL        float64
}

// DayStatsRecord snapshots the day's aggregates after each close.
type DayStatsRecord struct {
	Date         string // YYYY-MM-DD in the ledger's locale
	RecordedAt   time.Time
	TotalTrades  int
	ClosedTrades int
	Winners      int
	Losers       int
	TotalPnL     float64
	GrossProfit  float64
	GrossLoss    float64
}

// Journal is an append-only audit sink. The in-memory ledger is the
// source of truth; journal writes are best-effort and must never block
// a close.
type Journal interface {
	RecordTrade(TradeRecord) error
	RecordDayStats(DayStatsRecord) error
	Close() error
}

// Nop discards everything. Used when journaling is disabled.
type Nop struct{}

func (Nop) RecordTrade(TradeRecord) error       { return nil }
func (Nop) RecordDayStats(DayStatsRecord) error { return nil }
func (Nop) Close() error                        { return nil }
