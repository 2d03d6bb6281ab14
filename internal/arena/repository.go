package arena

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateArena(ctx context.Context, ownerID int, name, address string) (*Arena, error) {
	query := `
		INSERT INTO arenas (owner_id, name, address)
		VALUES ($1, $2, $3)
		RETURNING id, owner_id, name, address, created_at
	`

	var a Arena
	if err := r.db.GetContext(ctx, &a, query, ownerID, name, address); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) GetArenaByID(ctx context.Context, id int) (*Arena, error) {
	query := `
		SELECT id, owner_id, name, address, created_at
		FROM arenas
		WHERE id = $1
	`

	var a Arena
	err := r.db.GetContext(ctx, &a, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrArenaNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) ListArenas(ctx context.Context) ([]Arena, error) {
	query := `
		SELECT id, owner_id, name, address, created_at
		FROM arenas
		ORDER BY name ASC
	`

	arenas := []Arena{}
	if err := r.db.SelectContext(ctx, &arenas, query); err != nil {
		return nil, err
	}
	return arenas, nil
}

func (r *repository) UpsertWorkingHours(ctx context.Context, wh WorkingHours) (*WorkingHours, error) {
	query := `
		INSERT INTO working_hours (arena_id, day_of_week, open_time, close_time)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (arena_id, day_of_week)
		DO UPDATE SET open_time = EXCLUDED.open_time, close_time = EXCLUDED.close_time
		RETURNING arena_id, day_of_week, open_time, close_time
	`

	var out WorkingHours
	if err := r.db.GetContext(ctx, &out, query, wh.ArenaID, wh.DayOfWeek, wh.OpenTime, wh.CloseTime); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *repository) DeleteWorkingHours(ctx context.Context, arenaID, dayOfWeek int) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM working_hours WHERE arena_id = $1 AND day_of_week = $2`,
		arenaID, dayOfWeek,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrWorkingHoursNotFound
	}
	return nil
}

func (r *repository) GetWorkingHours(ctx context.Context, arenaID, dayOfWeek int) (*WorkingHours, error) {
	query := `
		SELECT arena_id, day_of_week, open_time, close_time
		FROM working_hours
		WHERE arena_id = $1 AND day_of_week = $2
	`

	var wh WorkingHours
	err := r.db.GetContext(ctx, &wh, query, arenaID, dayOfWeek)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &wh, nil
}

func (r *repository) ListWorkingHours(ctx context.Context, arenaID int) ([]WorkingHours, error) {
	query := `
		SELECT arena_id, day_of_week, open_time, close_time
		FROM working_hours
		WHERE arena_id = $1
		ORDER BY day_of_week ASC
	`

	hours := []WorkingHours{}
	if err := r.db.SelectContext(ctx, &hours, query, arenaID); err != nil {
		return nil, err
	}
	return hours, nil
}

func (r *repository) UpsertPrice(ctx context.Context, p Price) (*Price, error) {
	query := `
		INSERT INTO arena_prices (arena_id, day_type, price_per_hour)
		VALUES ($1, $2, $3)
		ON CONFLICT (arena_id, day_type)
		DO UPDATE SET price_per_hour = EXCLUDED.price_per_hour
		RETURNING arena_id, day_type, price_per_hour
	`

	var out Price
	if err := r.db.GetContext(ctx, &out, query, p.ArenaID, string(p.DayType), p.PricePerHour); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *repository) GetPrice(ctx context.Context, arenaID int, dayType DayType) (*Price, error) {
	query := `
		SELECT arena_id, day_type, price_per_hour
		FROM arena_prices
		WHERE arena_id = $1 AND day_type = $2
	`

	var p Price
	err := r.db.GetContext(ctx, &p, query, arenaID, string(dayType))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) ListPrices(ctx context.Context, arenaID int) ([]Price, error) {
	query := `
		SELECT arena_id, day_type, price_per_hour
		FROM arena_prices
		WHERE arena_id = $1
		ORDER BY day_type ASC
	`

	prices := []Price{}
	if err := r.db.SelectContext(ctx, &prices, query, arenaID); err != nil {
		return nil, err
	}
	return prices, nil
}
