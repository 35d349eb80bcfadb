package plan

import "context"

type Repository interface {
	GetByID(ctx context.Context, id int) (*Plan, error)
	List(ctx context.Context) ([]*Plan, error)
}
