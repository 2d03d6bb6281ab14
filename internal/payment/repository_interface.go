package payment

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, bookingID, userID int, amount decimal.Decimal, method Method) (*Payment, error)
	GetByID(ctx context.Context, id int) (*Payment, error)
	ListByUser(ctx context.Context, userID int) ([]Payment, error)
	ListAll(ctx context.Context) ([]Payment, error)
	// UpdateStatus applies c only if the payment still has c.From.
	UpdateStatus(ctx context.Context, id int, c Change) (*Payment, error)
}
