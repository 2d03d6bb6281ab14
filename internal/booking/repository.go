package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"arenabook/internal/db"
	"arenabook/internal/metrics"
	"arenabook/internal/schedule"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const bookingColumns = `id, user_id, arena_id, date, start_time, end_time, status, total_price, created_at, updated_at`

// lock_not_available, raised when lock_timeout expires.
const pqLockNotAvailable = "55P03"

type repository struct {
	db          *sqlx.DB
	lockTimeout time.Duration
}

// NewRepository returns a Postgres repository. Commit scopes are serialized
// with a transaction-level advisory lock on (arena_id, date).
func NewRepository(db *sqlx.DB, lockTimeout time.Duration) Repository {
	return &repository{db: db, lockTimeout: lockTimeout}
}

func (r *repository) InScope(ctx context.Context, key ScopeKey, fn func(tx ScopeTx) error) error {
	var waited time.Duration
	locked := false

	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		setTimeout := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())
		if _, err := tx.ExecContext(ctx, setTimeout); err != nil {
			return fmt.Errorf("set lock timeout: %w", err)
		}

		start := time.Now()
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1::int, $2::int)`, key.ArenaID, key.Date.Days()); err != nil {
			return lockError(ctx, key, err)
		}
		waited = time.Since(start)
		locked = true

		return fn(&pgScope{tx: tx, key: key})
	})

	if locked {
		metrics.ObserveLockWait(waited.Seconds())
	}
	return err
}

func lockError(ctx context.Context, key ScopeKey, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return ctx.Err()
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqLockNotAvailable {
		return fmt.Errorf("%w: scope %s", ErrBusy, key)
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: scope %s", ErrBusy, key)
	}
	return fmt.Errorf("acquire scope %s: %w", key, err)
}

type pgScope struct {
	tx  *sqlx.Tx
	key ScopeKey
}

func (s *pgScope) ActiveBookings(ctx context.Context) ([]Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE arena_id = $1 AND date = $2 AND status IN ('pending', 'approved')
		ORDER BY start_time, end_time, id
	`

	bookings := []Booking{}
	if err := s.tx.SelectContext(ctx, &bookings, query, s.key.ArenaID, s.key.Date); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (s *pgScope) Insert(ctx context.Context, b Booking) (*Booking, error) {
	if b.ArenaID != s.key.ArenaID || b.Date != s.key.Date {
		return nil, fmt.Errorf("booking for %d/%s inserted in scope %s", b.ArenaID, b.Date, s.key)
	}

	query := `
		INSERT INTO bookings (user_id, arena_id, date, start_time, end_time, status, total_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + bookingColumns

	var out Booking
	err := s.tx.GetContext(ctx, &out, query, b.UserID, b.ArenaID, b.Date, b.StartTime, b.EndTime, b.Status, b.TotalPrice)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	var b Booking
	err := r.db.GetContext(ctx, &b, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) ListActive(ctx context.Context, arenaID int, date schedule.Date) ([]Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE arena_id = $1 AND date = $2 AND status IN ('pending', 'approved')
		ORDER BY start_time, end_time, id
	`

	bookings := []Booking{}
	if err := r.db.SelectContext(ctx, &bookings, query, arenaID, date); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *repository) ListByUser(ctx context.Context, userID int) ([]Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	bookings := []Booking{}
	if err := r.db.SelectContext(ctx, &bookings, query, userID); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *repository) ListByArena(ctx context.Context, arenaID int, date *schedule.Date) ([]Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE arena_id = $1
		ORDER BY date DESC, start_time
	`
	args := []any{arenaID}
	if date != nil {
		query = `
			SELECT ` + bookingColumns + `
			FROM bookings
			WHERE arena_id = $1 AND date = $2
			ORDER BY start_time, id
		`
		args = append(args, *date)
	}

	bookings := []Booking{}
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *repository) ListCalendar(ctx context.Context, arenaID int, from schedule.Date) ([]Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE arena_id = $1 AND date >= $2 AND status IN ('pending', 'approved')
		ORDER BY date, start_time
	`

	bookings := []Booking{}
	if err := r.db.SelectContext(ctx, &bookings, query, arenaID, from); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int, from, to Status) (*Booking, error) {
	query := `
		UPDATE bookings
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING ` + bookingColumns

	var b Booking
	err := r.db.GetContext(ctx, &b, query, id, from, to)
	if errors.Is(err, sql.ErrNoRows) {
		exists, existsErr := db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM bookings WHERE id = $1)`, id)
		if existsErr != nil {
			return nil, existsErr
		}
		if !exists {
			return nil, ErrBookingNotFound
		}
		return nil, errStaleStatus
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) ListDueForCompletion(ctx context.Context, today schedule.Date, now schedule.Clock) ([]Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status = 'approved' AND (date < $1 OR (date = $1 AND end_time <= $2))
		ORDER BY date, end_time
	`

	bookings := []Booking{}
	if err := r.db.SelectContext(ctx, &bookings, query, today, now); err != nil {
		return nil, err
	}
	return bookings, nil
}
