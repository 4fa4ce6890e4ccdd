package risk

import "fmt"

// DaySnapshot is the slice of a day's trading stats the admission gate
// reads. Callers build it from the ledger's live stats.
type DaySnapshot struct {
	TotalTrades       int
	TotalPnL          float64
	ConsecutiveLosses int
}

// Decision is the outcome of the admission gate.
type Decision struct {
	Allowed bool
	Reason  string
}

// CanTrade runs the ordered daily admission checks. The first failing
// check wins: trade-count cap, then the daily loss circuit breaker,
// then the losing-streak cooldown. A block is an expected outcome, not
// an error.
func CanTrade(day DaySnapshot, p Policy) Decision {
	if day.TotalTrades >= p.MaxTradesPerDay {
		return Decision{Reason: fmt.Sprintf("Daily limit reached (%d)", p.MaxTradesPerDay)}
	}

	lossPct := day.TotalPnL / p.Capital * 100
	if day.TotalPnL < 0 && -lossPct >= p.MaxDailyLossPct {
		return Decision{Reason: fmt.Sprintf("Daily loss limit reached (%.2f%%)", lossPct)}
	}

	if day.ConsecutiveLosses >= p.MaxConsecutiveLosses {
		return Decision{Reason: fmt.Sprintf("%d consecutive losses. Take a break.", p.MaxConsecutiveLosses)}
	}

	return Decision{Allowed: true, Reason: "OK"}
}
