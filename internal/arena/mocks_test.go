package arena

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockRepository struct{ mock.Mock }

func (m *MockRepository) CreateArena(ctx context.Context, ownerID int, name, address string) (*Arena, error) {
	args := m.Called(ctx, ownerID, name, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Arena), args.Error(1)
}

func (m *MockRepository) GetArenaByID(ctx context.Context, id int) (*Arena, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Arena), args.Error(1)
}

func (m *MockRepository) ListArenas(ctx context.Context) ([]Arena, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Arena), args.Error(1)
}

func (m *MockRepository) UpsertWorkingHours(ctx context.Context, wh WorkingHours) (*WorkingHours, error) {
	args := m.Called(ctx, wh)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*WorkingHours), args.Error(1)
}

func (m *MockRepository) DeleteWorkingHours(ctx context.Context, arenaID, dayOfWeek int) error {
	return m.Called(ctx, arenaID, dayOfWeek).Error(0)
}

func (m *MockRepository) GetWorkingHours(ctx context.Context, arenaID, dayOfWeek int) (*WorkingHours, error) {
	args := m.Called(ctx, arenaID, dayOfWeek)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*WorkingHours), args.Error(1)
}

func (m *MockRepository) ListWorkingHours(ctx context.Context, arenaID int) ([]WorkingHours, error) {
	args := m.Called(ctx, arenaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]WorkingHours), args.Error(1)
}

func (m *MockRepository) UpsertPrice(ctx context.Context, p Price) (*Price, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Price), args.Error(1)
}

func (m *MockRepository) GetPrice(ctx context.Context, arenaID int, dayType DayType) (*Price, error) {
	args := m.Called(ctx, arenaID, dayType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Price), args.Error(1)
}

func (m *MockRepository) ListPrices(ctx context.Context, arenaID int) ([]Price, error) {
	args := m.Called(ctx, arenaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Price), args.Error(1)
}
