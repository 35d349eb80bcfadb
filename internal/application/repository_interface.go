package application

import "context"

type Repository interface {
	// GetByUIDAndOwner returns ErrNotFound both for unknown uids and for
	// applications owned by another user.
	GetByUIDAndOwner(ctx context.Context, uid string, ownerID int) (*Application, error)
	ListByOwner(ctx context.Context, ownerID int) ([]*Application, error)
}
