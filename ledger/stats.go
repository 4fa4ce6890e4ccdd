package ledger

import (
	"math"
	"strconv"
)

// DayStats are the stored per-day aggregates. Counters only ever
// increment; nothing is recomputed from scratch.
type DayStats struct {
	TotalTrades       int     `json:"total_trades"`
	ClosedTrades      int     `json:"closed_trades"`
	Winners           int     `json:"winners"`
	Losers            int     `json:"losers"`
	TotalPnL          float64 `json:"total_pnl"`
	GrossProfit       float64 `json:"gross_profit"`
	GrossLoss         float64 `json:"gross_loss"`
	ConsecutiveWins   int     `json:"consecutive_wins"`
	ConsecutiveLosses int     `json:"consecutive_losses"`
}

// Ratio is a float that survives JSON encoding when infinite.
// encoding/json rejects +Inf, so an infinite profit factor is emitted
// as the string "inf".
type Ratio float64

func (r Ratio) MarshalJSON() ([]byte, error) {
	v := float64(r)
	if math.IsInf(v, 1) {
		return []byte(`"inf"`), nil
	}
	return []byte(strconv.FormatFloat(v, 'f', -1, 64)), nil
}

// DayReport is a DayStats snapshot with the derived metrics computed
// at read time.
type DayReport struct {
	Date string `json:"date"`
	DayStats
	WinRate      float64 `json:"win_rate"`
	ProfitFactor Ratio   `json:"profit_factor"`
}

// report derives win rate and profit factor. Profit factor is infinite
// when there are profits and no losses, and zero before any close.
func (s DayStats) report(date string) DayReport {
	r := DayReport{Date: date, DayStats: s}
	if s.ClosedTrades > 0 {
		r.WinRate = float64(s.Winners) / float64(s.ClosedTrades) * 100
		if s.GrossLoss > 0 {
			r.ProfitFactor = Ratio(s.GrossProfit / s.GrossLoss)
		} else {
			r.ProfitFactor = Ratio(math.Inf(1))
		}
	}
	return r
}
