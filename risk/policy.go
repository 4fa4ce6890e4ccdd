package risk

// Policy holds the process-wide risk limits. Loaded once from config
// and never mutated after start.
type Policy struct {
	Capital float64 // account capital in rupees

	// Per-trade limits
	MaxRiskPerTradePct float64 // e.g. 2.0 = 2% of capital

	// Daily circuit breakers
	MaxDailyLossPct float64 // e.g. 5.0 = 5% of capital
	MaxTradesPerDay int

	// Cooldown after a losing streak
	MaxConsecutiveLosses int
}

// MaxTradeRisk is the largest rupee risk a single position may carry.
func (p Policy) MaxTradeRisk() float64 {
	return p.Capital * p.MaxRiskPerTradePct / 100
}
