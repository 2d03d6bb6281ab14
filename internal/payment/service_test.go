package payment

import (
	"context"
	"errors"
	"testing"

	"arenabook/internal/booking"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func pricedBooking(status booking.Status) *booking.Booking {
	price := decimal.RequireFromString("75000.00")
	return &booking.Booking{ID: 5, UserID: 3, ArenaID: 1, Status: status, TotalPrice: &price}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("charges the booking price", func(t *testing.T) {
		repo := new(MockRepository)
		bookings := new(MockBookings)
		bookings.On("Get", mock.Anything, 5).Return(pricedBooking(booking.StatusPending), nil)
		repo.On("Create", mock.Anything, 5, 3, mock.MatchedBy(func(d decimal.Decimal) bool {
			return d.Equal(decimal.NewFromInt(75000))
		}), MethodClick).Return(&Payment{ID: 1, BookingID: 5, Status: StatusCreated, Currency: DefaultCurrency}, nil)

		p, err := NewService(repo, bookings).Create(ctx, 3, 5, MethodClick)
		require.NoError(t, err)
		assert.Equal(t, StatusCreated, p.Status)
		repo.AssertExpectations(t)
	})

	tests := []struct {
		name    string
		userID  int
		method  Method
		booking *booking.Booking
		wantErr error
	}{
		{"unknown method", 3, Method("bitcoin"), pricedBooking(booking.StatusPending), ErrInvalidMethod},
		{"someone else's booking", 4, MethodCash, pricedBooking(booking.StatusPending), ErrNotBookingOwner},
		{"canceled booking", 3, MethodCash, pricedBooking(booking.StatusCanceled), ErrBookingNotPayable},
		{"unpriced booking", 3, MethodCash, &booking.Booking{ID: 5, UserID: 3, Status: booking.StatusPending}, ErrBookingNotPayable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			bookings := new(MockBookings)
			bookings.On("Get", mock.Anything, 5).Return(tt.booking, nil)

			_, err := NewService(repo, bookings).Create(ctx, tt.userID, 5, tt.method)
			assert.ErrorIs(t, err, tt.wantErr)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}

	t.Run("missing booking", func(t *testing.T) {
		bookings := new(MockBookings)
		bookings.On("Get", mock.Anything, 9).Return(nil, booking.ErrBookingNotFound)

		_, err := NewService(new(MockRepository), bookings).Create(ctx, 3, 9, MethodCash)
		assert.ErrorIs(t, err, booking.ErrBookingNotFound)
	})
}

func TestMarkSuccessApprovesBooking(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	bookings := new(MockBookings)

	repo.On("GetByID", mock.Anything, 1).Return(&Payment{ID: 1, BookingID: 5, Status: StatusPending, Method: MethodClick}, nil)
	repo.On("UpdateStatus", mock.Anything, 1, mock.MatchedBy(func(c Change) bool {
		return c.From == StatusPending && c.To == StatusSuccess &&
			c.ProviderTransactionID != nil && *c.ProviderTransactionID == "click-77" &&
			c.VerifiedAt != nil
	})).Return(&Payment{ID: 1, BookingID: 5, Status: StatusSuccess, Method: MethodClick}, nil)
	bookings.On("ApproveFromPayment", mock.Anything, 5).Return(pricedBooking(booking.StatusApproved), nil)

	p, err := NewService(repo, bookings).MarkSuccess(ctx, 1, "click-77")
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, p.Status)
	bookings.AssertExpectations(t)
}

func TestMarkSuccessKeepsPaymentWhenApprovalFails(t *testing.T) {
	repo := new(MockRepository)
	bookings := new(MockBookings)

	repo.On("GetByID", mock.Anything, 1).Return(&Payment{ID: 1, BookingID: 5, Status: StatusCreated}, nil)
	repo.On("UpdateStatus", mock.Anything, 1, mock.Anything).Return(&Payment{ID: 1, BookingID: 5, Status: StatusSuccess}, nil)
	bookings.On("ApproveFromPayment", mock.Anything, 5).Return(nil, errors.New("db down"))

	p, err := NewService(repo, bookings).MarkSuccess(context.Background(), 1, "")
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, p.Status)
}

func TestPaymentTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		apply   func(Service) (*Payment, error)
		to      Status
		wantErr error
	}{
		{"fail pending", StatusPending, func(s Service) (*Payment, error) { return s.MarkFailed(context.Background(), 1) }, StatusFailed, nil},
		{"refund success", StatusSuccess, func(s Service) (*Payment, error) { return s.Refund(context.Background(), 1) }, StatusRefunded, nil},
		{"refund pending", StatusPending, func(s Service) (*Payment, error) { return s.Refund(context.Background(), 1) }, "", ErrInvalidTransition},
		{"fail refunded", StatusRefunded, func(s Service) (*Payment, error) { return s.MarkFailed(context.Background(), 1) }, "", ErrInvalidTransition},
		{"pay failed", StatusFailed, func(s Service) (*Payment, error) { return s.MarkSuccess(context.Background(), 1, "x") }, "", ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			repo.On("GetByID", mock.Anything, 1).Return(&Payment{ID: 1, Status: tt.from}, nil)
			if tt.wantErr == nil {
				repo.On("UpdateStatus", mock.Anything, 1, mock.MatchedBy(func(c Change) bool {
					return c.From == tt.from && c.To == tt.to
				})).Return(&Payment{ID: 1, Status: tt.to}, nil)
			}

			p, err := tt.apply(NewService(repo, new(MockBookings)))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, p.Status)
		})
	}
}

func TestConcurrentChangeIsInvalidTransition(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetByID", mock.Anything, 1).Return(&Payment{ID: 1, Status: StatusPending}, nil)
	repo.On("UpdateStatus", mock.Anything, 1, mock.Anything).Return(nil, errStaleStatus)

	_, err := NewService(repo, new(MockBookings)).MarkFailed(context.Background(), 1)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestList(t *testing.T) {
	repo := new(MockRepository)
	repo.On("ListByUser", mock.Anything, 3).Return([]Payment{{ID: 1}}, nil)
	repo.On("ListAll", mock.Anything).Return([]Payment{{ID: 1}, {ID: 2}}, nil)
	svc := NewService(repo, new(MockBookings))

	mine, err := svc.List(context.Background(), 3, false)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := svc.List(context.Background(), 1, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
