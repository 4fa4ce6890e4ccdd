package market

import "math"

// StrikeFor derives the strike to trade: round the underlying price to
// the nearest strike interval for the at-the-money strike, then shift
// by the configured mode's offset.
func StrikeFor(entryPrice float64, instrument string, optType OptionType, mode StrikeMode) int {
	interval := StrikeInterval(instrument)
	atm := int(math.Round(entryPrice/float64(interval))) * interval
	return atm + mode.Offset(optType)*interval
}
