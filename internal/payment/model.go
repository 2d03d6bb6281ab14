package payment

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const DefaultCurrency = "UZS"

type Status string

const (
	StatusCreated  Status = "created"
	StatusPending  Status = "pending"
	StatusSuccess  Status = "success"
	StatusFailed   Status = "failed"
	StatusRefunded Status = "refunded"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusCreated, StatusPending, StatusSuccess, StatusFailed, StatusRefunded:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown payment status %q", s)
}

func (s *Status) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("scan payment status: unsupported type %T", src)
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

type Method string

const (
	MethodClick Method = "click"
	MethodPayme Method = "payme"
	MethodCard  Method = "card"
	MethodCash  Method = "cash"
)

func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodClick, MethodPayme, MethodCard, MethodCash:
		return Method(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMethod, s)
}

type Payment struct {
	ID                    int             `db:"id" json:"id"`
	BookingID             int             `db:"booking_id" json:"booking_id"`
	UserID                int             `db:"user_id" json:"user_id"`
	Amount                decimal.Decimal `db:"amount" json:"amount"`
	Currency              string          `db:"currency" json:"currency"`
	Method                Method          `db:"method" json:"method"`
	Status                Status          `db:"status" json:"status"`
	ProviderTransactionID *string         `db:"provider_transaction_id" json:"provider_transaction_id"`
	CreatedAt             time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time       `db:"updated_at" json:"updated_at"`
	VerifiedAt            *time.Time      `db:"verified_at" json:"verified_at"`
}

// Change is a status move plus the fields that travel with it.
type Change struct {
	From                  Status
	To                    Status
	ProviderTransactionID *string
	VerifiedAt            *time.Time
}

type CreateRequest struct {
	Method string `json:"method" binding:"required"`
}

type MarkPaidRequest struct {
	ProviderTransactionID string `json:"provider_transaction_id" binding:"max=255"`
}
