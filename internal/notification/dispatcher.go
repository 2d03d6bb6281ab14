package notification

import (
	"context"
	"errors"
	"fmt"

	"arenabook/internal/booking"
	"arenabook/internal/email"
	"arenabook/internal/logger"
	"arenabook/internal/metrics"
	"arenabook/internal/user"
)

type UserLookup interface {
	FindByID(ctx context.Context, id int) (*user.User, error)
}

type Mailer interface {
	Enqueue(ctx context.Context, job email.EmailJob) error
}

type Publisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// Dispatcher fans booking status changes out to the in-app inbox, the mail
// queue and the event exchange. Any of users, mailer and publisher may be nil.
type Dispatcher struct {
	repo      Repository
	users     UserLookup
	mailer    Mailer
	publisher Publisher
}

func NewDispatcher(repo Repository, users UserLookup, mailer Mailer, publisher Publisher) *Dispatcher {
	return &Dispatcher{repo: repo, users: users, mailer: mailer, publisher: publisher}
}

func (d *Dispatcher) HandleBookingEvent(ctx context.Context, ev booking.Event) error {
	var errs []error

	if ev.Status == booking.StatusApproved || ev.Status == booking.StatusRejected {
		title := fmt.Sprintf("Your booking was %s", ev.Status)
		message := fmt.Sprintf("Arena: %s\nDate: %s", ev.ArenaName, ev.Date)
		if _, err := d.repo.Create(ctx, ev.UserID, title, message); err != nil {
			metrics.RecordNotification("inbox", "error")
			errs = append(errs, fmt.Errorf("store notification: %w", err))
		} else {
			metrics.RecordNotification("inbox", "ok")
		}
	}

	if err := d.mail(ctx, ev); err != nil {
		metrics.RecordNotification("email", "error")
		errs = append(errs, err)
	}

	if d.publisher != nil {
		if err := d.publisher.PublishJSON(ctx, "booking."+string(ev.Status), ev); err != nil {
			metrics.RecordNotification("amqp", "error")
			errs = append(errs, fmt.Errorf("publish event: %w", err))
		} else {
			metrics.RecordNotification("amqp", "ok")
		}
	}

	return errors.Join(errs...)
}

func (d *Dispatcher) mail(ctx context.Context, ev booking.Event) error {
	if d.mailer == nil || d.users == nil {
		return nil
	}

	var build func(to, name string, details email.BookingDetails) email.EmailJob
	switch ev.Status {
	case booking.StatusApproved:
		build = email.BookingApproved
	case booking.StatusRejected:
		build = email.BookingRejected
	case booking.StatusCanceled:
		build = email.BookingCanceled
	case booking.StatusPending, booking.StatusCompleted:
		return nil
	default:
		logger.Warn("no mail template for booking status", "status", string(ev.Status))
		return nil
	}

	u, err := d.users.FindByID(ctx, ev.UserID)
	if err != nil {
		return fmt.Errorf("load user %d: %w", ev.UserID, err)
	}

	job := build(u.Email, u.Name, email.BookingDetails{
		BookingID: ev.BookingID,
		ArenaName: ev.ArenaName,
		Date:      ev.Date.String(),
		StartTime: ev.StartTime.String(),
		EndTime:   ev.EndTime.String(),
	})
	if err := d.mailer.Enqueue(ctx, job); err != nil {
		return fmt.Errorf("queue email: %w", err)
	}
	metrics.RecordNotification("email", "ok")
	return nil
}
