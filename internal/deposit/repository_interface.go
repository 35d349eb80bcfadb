package deposit

import (
	"context"

	"frangapp/internal/application"
	"frangapp/internal/plan"
)

// Ledger is the persistence side of the top-up workflow.
type Ledger interface {
	// GetApplication returns application.ErrNotFound unless ref names an
	// application owned by ownerID.
	GetApplication(ctx context.Context, ref string, ownerID int) (*application.Application, error)
	// GetPlan returns plan.ErrNotFound for unknown ids.
	GetPlan(ctx context.Context, id int) (*plan.Plan, error)
	// Credit inserts tx and adds tx.Quantity to the application balance in
	// one database transaction, returning the new balance.
	Credit(ctx context.Context, tx *Transaction) (int, error)
	ListTransactions(ctx context.Context, appID, limit, offset int) ([]*Transaction, error)
}
