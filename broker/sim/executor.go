// Package sim is the paper-trading venue: orders are acknowledged
// instantly and never leave the process.
package sim

import (
	"context"
	"fmt"

	"github.com/rksahai/tradehook/broker"
	"github.com/rksahai/tradehook/pkg/id"
)

// Executor acknowledges every order with a synthetic id. It keeps no
// state; the ledger owns the resulting position.
type Executor struct{}

func NewExecutor() *Executor { return &Executor{} }

func (e *Executor) PlaceOrder(ctx context.Context, req broker.OrderRequest) (broker.OrderResult, error) {
	if err := ctx.Err(); err != nil {
		return broker.OrderResult{}, err
	}
	if req.Symbol == "" || req.Quantity <= 0 {
		return broker.OrderResult{}, fmt.Errorf("sim executor: bad order request %+v", req)
	}
	return broker.OrderResult{OrderID: "SIM-" + id.New()}, nil
}

// Quoter marks manual closes in paper mode. With no market data feed
// there is nothing real to quote, so it marks at the reference price
// plus 5%. Ref resolves a symbol to its reference price, typically the
// open position's entry premium.
type Quoter struct {
	Ref func(symbol string) (float64, bool)
}

func (q Quoter) Quote(ctx context.Context, symbol string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	ref, ok := q.Ref(symbol)
	if !ok {
		return 0, fmt.Errorf("sim quoter: no reference price for %q", symbol)
	}
	return ref * 1.05, nil
}
