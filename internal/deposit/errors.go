package deposit

import (
	"fmt"
	"sort"
	"strings"

	"frangapp/internal/payment"

	"github.com/shopspring/decimal"
)

const (
	ResourceApplication = "application"
	ResourcePlan        = "plan"
)

// FieldIssue is one failed rule on an input field.
type FieldIssue struct {
	Tag   string
	Param string
}

// ValidationError is malformed or missing input. Nothing was attempted.
type ValidationError struct {
	Fields map[string]FieldIssue
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name, issue := range e.Fields {
		names = append(names, name+" "+issue.Tag)
	}
	sort.Strings(names)
	return "validation failed: " + strings.Join(names, ", ")
}

// NotFoundError is an unknown application or plan. Applications owned by
// another user are reported the same way.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// PaymentError is a charge that the gateway rejected or that could not be
// completed. No ledger state was written.
type PaymentError struct {
	Kind payment.Kind
	Err  error
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("payment failed (%s): %v", e.Kind, e.Err)
}

func (e *PaymentError) Unwrap() error {
	return e.Err
}

// StorageError is a ledger write that failed after the charge was captured.
// The customer has paid and the credit is outstanding.
type StorageError struct {
	ChargeID      string
	TransactionID string
	AppID         int
	AppUID        string
	UserID        int
	Quantity      int
	Amount        decimal.Decimal
	Err           error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("charge %s captured but credit of %d to app %d not recorded: %v",
		e.ChargeID, e.Quantity, e.AppID, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
