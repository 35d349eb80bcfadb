package application

import "time"

type Status int

const (
	StatusInactive Status = 0
	StatusActive   Status = 1
)

// Application is a tenant-owned entity whose balance is topped up by deposits.
type Application struct {
	ID        int       `db:"id" json:"-"`
	UID       string    `db:"uid" json:"uid"`
	UserID    int       `db:"user_id" json:"-"`
	Name      string    `db:"name" json:"name"`
	Link      string    `db:"link" json:"link"`
	Balance   int       `db:"balance" json:"balance"`
	Status    Status    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type ListResponse struct {
	Code int            `json:"code" example:"200"`
	List []*Application `json:"list"`
}
