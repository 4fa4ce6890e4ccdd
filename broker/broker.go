package broker

import "context"

// Side is the order direction the venue expects.
type Side int

const (
	Buy  Side = 1
	Sell Side = -1
)

// OrderType is the execution style. The signal pipeline only ever
// sends market orders; Limit exists for manual tooling.
type OrderType string

const (
	Market OrderType = "MARKET"
	Limit  OrderType = "LIMIT"
)

// OrderRequest is a single-leg option order.
type OrderRequest struct {
	Symbol   string
	Quantity int
	Side     Side
	Type     OrderType
}

// OrderResult is the venue's acknowledgement of a placed order.
type OrderResult struct {
	OrderID string
}

// OrderExecutor places orders at a venue. Implementations are opaque,
// possibly slow, and possibly failing; callers bound every submission
// with a context deadline and treat any error (including timeout) as
// order-not-placed.
type OrderExecutor interface {
	PlaceOrder(ctx context.Context, req OrderRequest) (OrderResult, error)
}

// Quoter supplies a tradeable price for a symbol, used to mark manual
// closes.
type Quoter interface {
	Quote(ctx context.Context, symbol string) (float64, error)
}
