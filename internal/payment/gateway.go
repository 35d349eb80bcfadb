package payment

import (
	"context"
	"fmt"
)

// Kind classifies why a charge did not succeed.
type Kind string

const (
	KindDeclined       Kind = "declined"
	KindInvalidRequest Kind = "invalid_request"
	KindNetwork        Kind = "network_error"
)

// ChargeRequest is a single synchronous card charge.
type ChargeRequest struct {
	AmountMinor    int64
	Currency       string
	Description    string
	Source         string
	IdempotencyKey string
}

// Charge is a captured charge.
type Charge struct {
	ID       string
	Amount   int64
	Currency string
}

// Gateway charges a payment source. Implementations return *Error for every
// failure; a nil error means the money was captured.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*Charge, error)
}

// Error is a failed charge. No money was captured, except that for
// KindNetwork the outcome is unknown.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("payment %s (%s): %s", e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("payment %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}
