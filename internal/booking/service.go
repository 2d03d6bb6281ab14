package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"arenabook/internal/arena"
	"arenabook/internal/logger"
	"arenabook/internal/metrics"
	"arenabook/internal/schedule"
)

// Arenas is the slice of the arena service the booking engine reads.
type Arenas interface {
	GetArena(ctx context.Context, id int) (*arena.Arena, error)
	Availability(ctx context.Context, arenaID int, date schedule.Date) (*arena.Availability, error)
}

type Service interface {
	FreeIntervals(ctx context.Context, arenaID int, date schedule.Date) (*FreeSchedule, error)
	Slots(ctx context.Context, arenaID int, date schedule.Date, duration time.Duration) (*SlotSchedule, error)

	Create(ctx context.Context, userID int, req CreateRequest) (*Booking, error)
	Get(ctx context.Context, id int) (*Booking, error)
	ListForUser(ctx context.Context, userID int) ([]Booking, error)
	ListForArena(ctx context.Context, arenaID int, date *schedule.Date) ([]Booking, error)
	Calendar(ctx context.Context, arenaID int, from schedule.Date) ([]Booking, error)

	Cancel(ctx context.Context, userID, bookingID int) (*Booking, error)
	Approve(ctx context.Context, bookingID int) (*Booking, error)
	Reject(ctx context.Context, bookingID int) (*Booking, error)
	// ApproveFromPayment approves a pending booking after a successful
	// payment. Bookings in any other status are returned unchanged.
	ApproveFromPayment(ctx context.Context, bookingID int) (*Booking, error)
	// CompleteDue completes every approved booking that has ended by now and
	// returns how many were completed.
	CompleteDue(ctx context.Context, now time.Time) (int, error)
}

type Options struct {
	InitialStatus Status
	SlotDuration  time.Duration
	Location      *time.Location
	Now           func() time.Time
}

type service struct {
	repo   Repository
	arenas Arenas
	sinks  []EventSink
	opts   Options
}

func NewService(repo Repository, arenas Arenas, opts Options, sinks ...EventSink) Service {
	if opts.InitialStatus == "" {
		opts.InitialStatus = StatusPending
	}
	if opts.SlotDuration <= 0 {
		opts.SlotDuration = time.Hour
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &service{repo: repo, arenas: arenas, sinks: sinks, opts: opts}
}

func (s *service) FreeIntervals(ctx context.Context, arenaID int, date schedule.Date) (*FreeSchedule, error) {
	av, err := s.arenas.Availability(ctx, arenaID, date)
	if err != nil {
		return nil, err
	}

	out := &FreeSchedule{ArenaID: arenaID, Date: date, Closed: av.Closed(), Free: []schedule.Interval{}}
	if av.Closed() {
		return out, nil
	}

	active, err := s.repo.ListActive(ctx, arenaID, date)
	if err != nil {
		return nil, fmt.Errorf("list active bookings: %w", err)
	}

	hours := av.Hours.Interval()
	booked := make([]schedule.Interval, 0, len(active))
	for _, b := range active {
		booked = append(booked, b.Interval())
	}
	out.WorkingHours = &hours
	out.Free = schedule.FreeIntervals(hours, booked)
	return out, nil
}

func (s *service) Slots(ctx context.Context, arenaID int, date schedule.Date, duration time.Duration) (*SlotSchedule, error) {
	if duration <= 0 {
		duration = s.opts.SlotDuration
	}

	av, err := s.arenas.Availability(ctx, arenaID, date)
	if err != nil {
		return nil, err
	}

	out := &SlotSchedule{
		ArenaID:         arenaID,
		Date:            date,
		Closed:          av.Closed(),
		DurationMinutes: int(duration / time.Minute),
		Slots:           []Slot{},
	}
	if av.Closed() {
		return out, nil
	}

	active, err := s.repo.ListActive(ctx, arenaID, date)
	if err != nil {
		return nil, fmt.Errorf("list active bookings: %w", err)
	}

	for iv := range schedule.GenerateSlots(av.Hours.Interval(), duration) {
		slot := Booking{StartTime: iv.Start, EndTime: iv.End}
		out.Slots = append(out.Slots, Slot{Interval: iv, Available: firstConflict(slot, active) == nil})
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, userID int, req CreateRequest) (*Booking, error) {
	candidate := Booking{
		UserID:    userID,
		ArenaID:   req.ArenaID,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    s.opts.InitialStatus,
	}
	if !candidate.Interval().Valid() {
		return nil, ErrInvalidInterval
	}

	av, err := s.arenas.Availability(ctx, req.ArenaID, req.Date)
	if err != nil {
		return nil, err
	}

	others, err := s.repo.ListActive(ctx, req.ArenaID, req.Date)
	if err != nil {
		return nil, fmt.Errorf("list active bookings: %w", err)
	}
	if err := Validate(candidate, av.Hours, others); err != nil {
		if errors.Is(err, ErrSlotConflict) {
			metrics.RecordBookingConflict("precheck")
		}
		return nil, err
	}

	if av.Price == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoPriceConfigured, av.DayType)
	}
	price := ComputePrice(av.Price.PricePerHour, candidate.Interval())
	candidate.TotalPrice = &price

	key := ScopeKey{ArenaID: req.ArenaID, Date: req.Date}
	var created *Booking
	err = s.repo.InScope(ctx, key, func(tx ScopeTx) error {
		current, err := tx.ActiveBookings(ctx)
		if err != nil {
			return err
		}
		if clash := firstConflict(candidate, current); clash != nil {
			return fmt.Errorf("%w: lost commit race to booking %d", ErrSlotConflict, clash.ID)
		}
		created, err = tx.Insert(ctx, candidate)
		return err
	})

	switch {
	case err == nil:
	case errors.Is(err, ErrSlotConflict):
		metrics.RecordBookingConflict("commit")
		logger.Debug("booking commit conflict", "scope", key.String(), "user_id", userID, "error", err)
		return nil, err
	case errors.Is(err, ErrBusy):
		metrics.RecordBookingBusy()
		logger.Warn("booking scope busy", "scope", key.String(), "user_id", userID)
		return nil, err
	default:
		return nil, fmt.Errorf("commit booking: %w", err)
	}

	metrics.RecordBookingCommitted(string(created.Status))
	logger.Info("booking created",
		"booking_id", created.ID,
		"arena_id", created.ArenaID,
		"date", created.Date.String(),
		"start", created.StartTime.String(),
		"end", created.EndTime.String(),
		"status", string(created.Status),
	)
	return created, nil
}

func (s *service) Get(ctx context.Context, id int) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListForUser(ctx context.Context, userID int) ([]Booking, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) ListForArena(ctx context.Context, arenaID int, date *schedule.Date) ([]Booking, error) {
	if _, err := s.arenas.GetArena(ctx, arenaID); err != nil {
		return nil, err
	}
	return s.repo.ListByArena(ctx, arenaID, date)
}

func (s *service) Calendar(ctx context.Context, arenaID int, from schedule.Date) ([]Booking, error) {
	if _, err := s.arenas.GetArena(ctx, arenaID); err != nil {
		return nil, err
	}
	return s.repo.ListCalendar(ctx, arenaID, from)
}

func (s *service) Cancel(ctx context.Context, userID, bookingID int) (*Booking, error) {
	return s.transition(ctx, bookingID, ActionCancel, func(b *Booking) error {
		if b.UserID != userID {
			return ErrForbidden
		}
		return nil
	})
}

func (s *service) Approve(ctx context.Context, bookingID int) (*Booking, error) {
	return s.transition(ctx, bookingID, ActionApprove, nil)
}

func (s *service) Reject(ctx context.Context, bookingID int) (*Booking, error) {
	return s.transition(ctx, bookingID, ActionReject, nil)
}

func (s *service) ApproveFromPayment(ctx context.Context, bookingID int) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != StatusPending {
		return b, nil
	}

	approved, err := s.transition(ctx, bookingID, ActionApprove, nil)
	if errors.Is(err, ErrInvalidTransition) {
		return s.repo.GetByID(ctx, bookingID)
	}
	return approved, err
}

func (s *service) CompleteDue(ctx context.Context, now time.Time) (int, error) {
	local := now.In(s.opts.Location)
	today := schedule.DateOf(local)
	clock := schedule.NewClock(local.Hour(), local.Minute(), local.Second())

	due, err := s.repo.ListDueForCompletion(ctx, today, clock)
	if err != nil {
		return 0, fmt.Errorf("list due bookings: %w", err)
	}

	completed := 0
	for _, b := range due {
		if _, err := s.transition(ctx, b.ID, ActionComplete, nil); err != nil {
			if errors.Is(err, ErrInvalidTransition) {
				continue
			}
			return completed, err
		}
		completed++
	}
	return completed, nil
}

// transition applies action to a booking with a compare-and-set on its
// current status. Of two racing transitions exactly one wins; the other sees
// ErrInvalidTransition.
func (s *service) transition(ctx context.Context, id int, action Action, authorize func(*Booking) error) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if authorize != nil {
		if err := authorize(b); err != nil {
			return nil, err
		}
	}

	to, err := Transition(b.Status, action)
	if err != nil {
		metrics.RecordTransition(string(action), "invalid")
		return nil, err
	}

	updated, err := s.repo.UpdateStatus(ctx, id, b.Status, to)
	if errors.Is(err, errStaleStatus) {
		metrics.RecordTransition(string(action), "stale")
		current := b.Status
		if fresh, getErr := s.repo.GetByID(ctx, id); getErr == nil {
			current = fresh.Status
		}
		return nil, fmt.Errorf("%w: cannot %s a %s booking", ErrInvalidTransition, action, current)
	}
	if err != nil {
		return nil, err
	}

	metrics.RecordTransition(string(action), "ok")
	logger.Info("booking status changed",
		"booking_id", id,
		"action", string(action),
		"from", string(b.Status),
		"to", string(updated.Status),
	)
	s.emit(ctx, updated)
	return updated, nil
}

func (s *service) emit(ctx context.Context, b *Booking) {
	if len(s.sinks) == 0 {
		return
	}

	ev := Event{
		BookingID:  b.ID,
		UserID:     b.UserID,
		ArenaID:    b.ArenaID,
		Date:       b.Date,
		StartTime:  b.StartTime,
		EndTime:    b.EndTime,
		Status:     b.Status,
		OccurredAt: s.opts.Now(),
	}
	if a, err := s.arenas.GetArena(ctx, b.ArenaID); err == nil {
		ev.ArenaName = a.Name
	} else {
		logger.Warn("booking event without arena name", "booking_id", b.ID, "error", err)
	}

	for _, sink := range s.sinks {
		if err := sink.HandleBookingEvent(ctx, ev); err != nil {
			logger.Error("booking event sink failed", "booking_id", b.ID, "status", string(b.Status), "error", err)
		}
	}
}
