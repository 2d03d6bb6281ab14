package payment

import (
	"context"
	"database/sql"
	"errors"

	"arenabook/internal/db"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const paymentColumns = `id, booking_id, user_id, amount, currency, method, status, provider_transaction_id, created_at, updated_at, verified_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, bookingID, userID int, amount decimal.Decimal, method Method) (*Payment, error) {
	query := `
		INSERT INTO payments (booking_id, user_id, amount, currency, method, status)
		VALUES ($1, $2, $3, $4, $5, 'created')
		RETURNING ` + paymentColumns

	var p Payment
	if err := r.db.GetContext(ctx, &p, query, bookingID, userID, amount, DefaultCurrency, method); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	var p Payment
	err := r.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) ListByUser(ctx context.Context, userID int) ([]Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE user_id = $1 ORDER BY created_at DESC`

	list := []Payment{}
	if err := r.db.SelectContext(ctx, &list, query, userID); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) ListAll(ctx context.Context) ([]Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments ORDER BY created_at DESC`

	list := []Payment{}
	if err := r.db.SelectContext(ctx, &list, query); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int, c Change) (*Payment, error) {
	query := `
		UPDATE payments
		SET status = $3,
			provider_transaction_id = COALESCE($4, provider_transaction_id),
			verified_at = COALESCE($5, verified_at),
			updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING ` + paymentColumns

	var p Payment
	err := r.db.GetContext(ctx, &p, query, id, c.From, c.To, c.ProviderTransactionID, c.VerifiedAt)
	if errors.Is(err, sql.ErrNoRows) {
		exists, existsErr := db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM payments WHERE id = $1)`, id)
		if existsErr != nil {
			return nil, existsErr
		}
		if !exists {
			return nil, ErrPaymentNotFound
		}
		return nil, errStaleStatus
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
