package user

import (
	"context"
	"time"

	"arenabook/internal/auth"

	"github.com/stretchr/testify/mock"
)

func testIssuer() *auth.Issuer {
	i, err := auth.NewIssuer("test-secret", 15*time.Minute, time.Hour)
	if err != nil {
		panic(err)
	}
	return i
}

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, nu NewUser) (*User, error) {
	args := m.Called(ctx, nu)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) FindByID(ctx context.Context, id int) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}
