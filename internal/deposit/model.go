package deposit

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionStatus int

const (
	StatusPending   TransactionStatus = 0
	StatusSucceeded TransactionStatus = 1
	StatusFailed    TransactionStatus = 2
)

// MethodCard is the card payment gateway.
const MethodCard = 1

// Transaction is an append-only ledger row for one completed top-up.
type Transaction struct {
	ID        int               `db:"id" json:"-"`
	UID       string            `db:"uid" json:"uid"`
	UserID    int               `db:"user_id" json:"-"`
	AppID     int               `db:"app_id" json:"-"`
	Amount    decimal.Decimal   `db:"amount" json:"amount" swaggertype:"string"`
	Quantity  int               `db:"quantity" json:"quantity"`
	Status    TransactionStatus `db:"status" json:"status"`
	MethodID  int               `db:"method_id" json:"method_id"`
	ChargeID  string            `db:"charge_id" json:"-"`
	CreatedAt time.Time         `db:"created_at" json:"created_at"`
}

// Result of a credited top-up.
type Result struct {
	Transaction *Transaction
	Balance     int
}

type DepositResponse struct {
	Code        int    `json:"code" example:"200"`
	Transaction string `json:"transaction" example:"5b0c1d2e-6a1f-4f7e-9f65-0d2b3c4a5e6f"`
	Balance     int    `json:"balance" example:"15"`
}

type TransactionsResponse struct {
	Code int            `json:"code" example:"200"`
	List []*Transaction `json:"list"`
}
