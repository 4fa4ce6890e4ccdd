package ledger

import (
	"time"

	"github.com/rksahai/tradehook/market"
)

// Status is a position's lifecycle state. The only transition is
// StatusOpen -> StatusClosed, and it happens at most once.
type Status string

const (
	StatusOpen   Status = "OPEN"
	StatusClosed Status = "CLOSED"
)

// Position is a single option position, owned exclusively by the
// Ledger. Exit fields are zero until the position closes.
type Position struct {
	ID         string            `json:"position_id"`
	Strategy   string            `json:"strategy"`
	Instrument string            `json:"instrument"`
	Symbol     string            `json:"symbol"`
	OptionType market.OptionType `json:"option_type"`
	Strike     int               `json:"strike"`
	Expiry     string            `json:"expiry"`

	EntryPrice float64 `json:"entry_price"`
	Quantity   int     `json:"quantity"`
	StopLoss   float64 `json:"stop_loss"`
	TakeProfit float64 `json:"take_profit"`
	Risk       float64 `json:"risk"`

	OrderID string `json:"order_id,omitempty"` // broker order id, live mode only

	Status    Status    `json:"status"`
	EntryTime time.Time `json:"entry_time"`
	ExitPrice float64   `json:"exit_price,omitempty"`
	ExitTime  time.Time `json:"exit_time,omitzero"`
	PnL       float64   `json:"pnl,omitempty"`
}

// TradeLogEntry is one row of the append-only trade log, created
// exactly once per closed position.
type TradeLogEntry struct {
	PositionID string  `json:"position_id"`
	Symbol     string  `json:"symbol"`
	Entry      float64 `json:"entry"`
	Exit       float64 `json:"exit"`
	PnL        float64 `json:"pnl"`
}
