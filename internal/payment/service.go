package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"arenabook/internal/booking"
	"arenabook/internal/logger"
	"arenabook/internal/metrics"
)

// Bookings is the part of the booking engine payments depend on.
type Bookings interface {
	Get(ctx context.Context, id int) (*booking.Booking, error)
	ApproveFromPayment(ctx context.Context, bookingID int) (*booking.Booking, error)
}

type Service interface {
	Create(ctx context.Context, userID, bookingID int, method Method) (*Payment, error)
	List(ctx context.Context, userID int, all bool) ([]Payment, error)
	// MarkSuccess records a verified payment and approves its booking if
	// the booking is still pending.
	MarkSuccess(ctx context.Context, id int, providerTransactionID string) (*Payment, error)
	MarkFailed(ctx context.Context, id int) (*Payment, error)
	Refund(ctx context.Context, id int) (*Payment, error)
}

type service struct {
	repo     Repository
	bookings Bookings
	now      func() time.Time
}

func NewService(repo Repository, bookings Bookings) Service {
	return &service{repo: repo, bookings: bookings, now: time.Now}
}

func (s *service) Create(ctx context.Context, userID, bookingID int, method Method) (*Payment, error) {
	if _, err := ParseMethod(string(method)); err != nil {
		return nil, err
	}

	b, err := s.bookings.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, ErrNotBookingOwner
	}
	if !b.Status.Active() {
		return nil, fmt.Errorf("%w: booking is %s", ErrBookingNotPayable, b.Status)
	}
	if b.TotalPrice == nil {
		return nil, fmt.Errorf("%w: booking has no price", ErrBookingNotPayable)
	}

	p, err := s.repo.Create(ctx, bookingID, userID, *b.TotalPrice, method)
	if err != nil {
		return nil, err
	}
	metrics.RecordPayment(string(method), string(StatusCreated))
	return p, nil
}

func (s *service) List(ctx context.Context, userID int, all bool) ([]Payment, error) {
	if all {
		return s.repo.ListAll(ctx)
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) MarkSuccess(ctx context.Context, id int, providerTransactionID string) (*Payment, error) {
	now := s.now()
	change := Change{To: StatusSuccess, VerifiedAt: &now}
	if providerTransactionID != "" {
		change.ProviderTransactionID = &providerTransactionID
	}

	p, err := s.move(ctx, id, change)
	if err != nil {
		return nil, err
	}

	// The payment stands even if the booking moved on in the meantime.
	if _, err := s.bookings.ApproveFromPayment(ctx, p.BookingID); err != nil {
		logger.Error("approve booking after payment failed", "payment_id", p.ID, "booking_id", p.BookingID, "error", err)
	}
	return p, nil
}

func (s *service) MarkFailed(ctx context.Context, id int) (*Payment, error) {
	return s.move(ctx, id, Change{To: StatusFailed})
}

func (s *service) Refund(ctx context.Context, id int) (*Payment, error) {
	return s.move(ctx, id, Change{To: StatusRefunded})
}

func (s *service) move(ctx context.Context, id int, c Change) (*Payment, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := next(current.Status, c.To); err != nil {
		return nil, err
	}

	c.From = current.Status
	p, err := s.repo.UpdateStatus(ctx, id, c)
	if errors.Is(err, errStaleStatus) {
		return nil, fmt.Errorf("%w: payment %d changed concurrently", ErrInvalidTransition, id)
	}
	if err != nil {
		return nil, err
	}

	metrics.RecordPayment(string(p.Method), string(p.Status))
	logger.Info("payment status changed", "payment_id", p.ID, "from", string(c.From), "to", string(p.Status))
	return p, nil
}
