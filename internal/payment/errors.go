package payment

import "errors"

var (
	ErrPaymentNotFound   = errors.New("payment not found")
	ErrInvalidMethod     = errors.New("unknown payment method")
	ErrBookingNotPayable = errors.New("booking cannot be paid")
	ErrNotBookingOwner   = errors.New("booking belongs to another user")
	ErrInvalidTransition = errors.New("invalid payment status transition")
)

var errStaleStatus = errors.New("payment status changed concurrently")
