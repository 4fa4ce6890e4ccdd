package signal

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized means the webhook secret did not match.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidSignal means the payload is missing or malformed.
	ErrInvalidSignal = errors.New("invalid signal")

	// ErrExecution means the broker did not confirm the order. The
	// order was treated as not placed and nothing was recorded.
	ErrExecution = errors.New("order execution failed")
)

// BlockedError is a risk gate refusing the trade. It is an expected,
// frequent outcome, not a fault; Reason is safe to show the caller.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("trade blocked: %s", e.Reason)
}
