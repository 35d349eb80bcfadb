package plan

import (
	"time"

	"github.com/shopspring/decimal"
)

// Plan is a purchasable bundle of balance units.
type Plan struct {
	ID        int             `db:"id" json:"id"`
	Count     int             `db:"count" json:"count"`
	Price     decimal.Decimal `db:"price" json:"price"`
	Save      string          `db:"save" json:"save"`
	CreatedAt time.Time       `db:"created_at" json:"-"`
}

// Listing is a plan annotated with the configured currency.
type Listing struct {
	ID       int             `json:"id" example:"1"`
	Count    int             `json:"count" example:"10"`
	Price    decimal.Decimal `json:"price" swaggertype:"string" example:"9.99"`
	Save     string          `json:"save" example:"10%"`
	Currency string          `json:"currency" example:"usd"`
	Symbol   string          `json:"symbol" example:"$"`
}

type ListResponse struct {
	Code int       `json:"code" example:"200"`
	List []Listing `json:"list"`
}
