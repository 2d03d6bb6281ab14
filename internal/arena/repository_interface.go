package arena

import "context"

// Repository stores arenas and their weekly configuration.
// GetWorkingHours and GetPrice return (nil, nil) when nothing is configured.
type Repository interface {
	CreateArena(ctx context.Context, ownerID int, name, address string) (*Arena, error)
	GetArenaByID(ctx context.Context, id int) (*Arena, error)
	ListArenas(ctx context.Context) ([]Arena, error)

	UpsertWorkingHours(ctx context.Context, wh WorkingHours) (*WorkingHours, error)
	DeleteWorkingHours(ctx context.Context, arenaID, dayOfWeek int) error
	GetWorkingHours(ctx context.Context, arenaID, dayOfWeek int) (*WorkingHours, error)
	ListWorkingHours(ctx context.Context, arenaID int) ([]WorkingHours, error)

	UpsertPrice(ctx context.Context, p Price) (*Price, error)
	GetPrice(ctx context.Context, arenaID int, dayType DayType) (*Price, error)
	ListPrices(ctx context.Context, arenaID int) ([]Price, error)
}
