package arena

import (
	"context"
	"fmt"

	"arenabook/internal/schedule"
)

type Service interface {
	CreateArena(ctx context.Context, ownerID int, req CreateArenaRequest) (*Arena, error)
	GetArena(ctx context.Context, id int) (*Arena, error)
	ListArenas(ctx context.Context) ([]Arena, error)

	SetWorkingHours(ctx context.Context, arenaID, dayOfWeek int, req WorkingHoursRequest) (*WorkingHours, error)
	DeleteWorkingHours(ctx context.Context, arenaID, dayOfWeek int) error
	ListWorkingHours(ctx context.Context, arenaID int) ([]WorkingHours, error)

	SetPrice(ctx context.Context, arenaID int, dayType DayType, req PriceRequest) (*Price, error)
	ListPrices(ctx context.Context, arenaID int) ([]Price, error)

	// WorkingHoursFor returns nil without error when the arena is closed on date.
	WorkingHoursFor(ctx context.Context, arenaID int, date schedule.Date) (*WorkingHours, error)
	// PriceFor returns nil without error when date's day type has no rate.
	PriceFor(ctx context.Context, arenaID int, date schedule.Date) (*Price, error)
	Availability(ctx context.Context, arenaID int, date schedule.Date) (*Availability, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateArena(ctx context.Context, ownerID int, req CreateArenaRequest) (*Arena, error) {
	if req.OwnerID > 0 {
		ownerID = req.OwnerID
	}
	return s.repo.CreateArena(ctx, ownerID, req.Name, req.Address)
}

func (s *service) GetArena(ctx context.Context, id int) (*Arena, error) {
	return s.repo.GetArenaByID(ctx, id)
}

func (s *service) ListArenas(ctx context.Context) ([]Arena, error) {
	return s.repo.ListArenas(ctx)
}

func (s *service) SetWorkingHours(ctx context.Context, arenaID, dayOfWeek int, req WorkingHoursRequest) (*WorkingHours, error) {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return nil, ErrInvalidDayOfWeek
	}

	open, err := schedule.ParseClock(req.OpenTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWorkingHours, err)
	}
	closeAt, err := schedule.ParseClock(req.CloseTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWorkingHours, err)
	}
	if open >= closeAt {
		return nil, ErrInvalidWorkingHours
	}

	if _, err := s.repo.GetArenaByID(ctx, arenaID); err != nil {
		return nil, err
	}

	return s.repo.UpsertWorkingHours(ctx, WorkingHours{
		ArenaID:   arenaID,
		DayOfWeek: dayOfWeek,
		OpenTime:  open,
		CloseTime: closeAt,
	})
}

func (s *service) DeleteWorkingHours(ctx context.Context, arenaID, dayOfWeek int) error {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return ErrInvalidDayOfWeek
	}
	return s.repo.DeleteWorkingHours(ctx, arenaID, dayOfWeek)
}

func (s *service) ListWorkingHours(ctx context.Context, arenaID int) ([]WorkingHours, error) {
	if _, err := s.repo.GetArenaByID(ctx, arenaID); err != nil {
		return nil, err
	}
	return s.repo.ListWorkingHours(ctx, arenaID)
}

func (s *service) SetPrice(ctx context.Context, arenaID int, dayType DayType, req PriceRequest) (*Price, error) {
	if _, err := ParseDayType(string(dayType)); err != nil {
		return nil, err
	}
	if req.PricePerHour.IsNegative() {
		return nil, ErrNegativePrice
	}
	if _, err := s.repo.GetArenaByID(ctx, arenaID); err != nil {
		return nil, err
	}

	return s.repo.UpsertPrice(ctx, Price{
		ArenaID:      arenaID,
		DayType:      dayType,
		PricePerHour: req.PricePerHour.Round(2),
	})
}

func (s *service) ListPrices(ctx context.Context, arenaID int) ([]Price, error) {
	if _, err := s.repo.GetArenaByID(ctx, arenaID); err != nil {
		return nil, err
	}
	return s.repo.ListPrices(ctx, arenaID)
}

func (s *service) WorkingHoursFor(ctx context.Context, arenaID int, date schedule.Date) (*WorkingHours, error) {
	if _, err := s.repo.GetArenaByID(ctx, arenaID); err != nil {
		return nil, err
	}
	return s.repo.GetWorkingHours(ctx, arenaID, date.Weekday())
}

func (s *service) PriceFor(ctx context.Context, arenaID int, date schedule.Date) (*Price, error) {
	if _, err := s.repo.GetArenaByID(ctx, arenaID); err != nil {
		return nil, err
	}
	return s.repo.GetPrice(ctx, arenaID, DayTypeOf(date))
}

func (s *service) Availability(ctx context.Context, arenaID int, date schedule.Date) (*Availability, error) {
	a, err := s.repo.GetArenaByID(ctx, arenaID)
	if err != nil {
		return nil, err
	}

	hours, err := s.repo.GetWorkingHours(ctx, arenaID, date.Weekday())
	if err != nil {
		return nil, fmt.Errorf("load working hours: %w", err)
	}

	dayType := DayTypeOf(date)
	price, err := s.repo.GetPrice(ctx, arenaID, dayType)
	if err != nil {
		return nil, fmt.Errorf("load price: %w", err)
	}

	return &Availability{
		Arena:   a,
		Date:    date,
		Weekday: date.Weekday(),
		DayType: dayType,
		Hours:   hours,
		Price:   price,
	}, nil
}
