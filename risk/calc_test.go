package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckPositionRisk(t *testing.T) {
	t.Parallel()

	p := testPolicy() // capital 100000, 2% per trade -> 2000 max

	assert.True(t, CheckPositionRisk(1500, p))
	assert.True(t, CheckPositionRisk(2000, p), "exact boundary is allowed")
	assert.False(t, CheckPositionRisk(2000.01, p))
	assert.True(t, CheckPositionRisk(0, p))
}

func TestSizePosition(t *testing.T) {
	t.Parallel()

	p := testPolicy() // 2000 max trade risk

	tests := []struct {
		name       string
		riskPerLot float64
		want       int
	}{
		{"divides evenly", 500, 4},
		{"floors the remainder", 600, 3},
		{"exactly the limit gives one lot", 2000, 1},
		{"over the limit gives zero", 2500, 0},
		{"zero risk treated as oversized", 0, 0},
		{"negative risk treated as oversized", -100, 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, SizePosition(tt.riskPerLot, p))
		})
	}
}

func TestMaxTradeRisk(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 2000, testPolicy().MaxTradeRisk(), 1e-9)
}
