package worker

import (
	"context"
	"fmt"
	"time"

	"arenabook/internal/logger"

	"github.com/go-co-op/gocron/v2"
)

// Completer moves approved bookings that have ended into completed.
type Completer interface {
	CompleteDue(ctx context.Context, now time.Time) (int, error)
}

// Completion runs Completer.CompleteDue on a fixed interval.
type Completion struct {
	completer Completer
	scheduler gocron.Scheduler
	interval  time.Duration
	timeout   time.Duration
	now       func() time.Time
}

func NewCompletion(completer Completer, interval time.Duration, loc *time.Location) (*Completion, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("completion interval must be positive, got %s", interval)
	}
	if loc == nil {
		loc = time.UTC
	}

	s, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	return &Completion{
		completer: completer,
		scheduler: s,
		interval:  interval,
		timeout:   interval,
		now:       time.Now,
	}, nil
}

// Start registers the job and starts the scheduler. The first run happens
// immediately so bookings that ended while the process was down are
// completed on boot.
func (w *Completion) Start(ctx context.Context) error {
	_, err := w.scheduler.NewJob(
		gocron.DurationJob(w.interval),
		gocron.NewTask(func() { w.run(ctx) }),
		gocron.WithName("complete-due-bookings"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("register completion job: %w", err)
	}

	w.scheduler.Start()
	logger.Info("completion worker started", "interval", w.interval.String())
	return nil
}

func (w *Completion) Stop() error {
	return w.scheduler.Shutdown()
}

func (w *Completion) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	now := w.now()
	log := logger.With("job", "complete-due-bookings", "now", now)
	n, err := w.completer.CompleteDue(ctx, now)
	if err != nil {
		log.Error("complete due bookings failed", "error", err)
		return
	}
	if n > 0 {
		log.Info("completed due bookings", "count", n)
	}
}
