package risk

import "math"

// CheckPositionRisk reports whether a position's rupee risk fits inside
// the per-trade limit. The boundary is inclusive: a position risking
// exactly the limit is allowed.
func CheckPositionRisk(positionRisk float64, p Policy) bool {
	return positionRisk <= p.MaxTradeRisk()
}

// SizePosition returns the recommended number of lots for a given
// rupee risk per lot. Advisory only; the live pipeline trades the
// instrument's full lot size. A non-positive riskPerLot is treated as
// oversized rather than dividing by it.
func SizePosition(riskPerLot float64, p Policy) int {
	maxRisk := p.MaxTradeRisk()
	if riskPerLot <= 0 || riskPerLot > maxRisk {
		return 0
	}
	lots := int(math.Floor(maxRisk / riskPerLot))
	if lots < 1 {
		return 1
	}
	return lots
}
