package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"arenabook/internal/auth"
	"arenabook/internal/logger"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*Session, error)
	Login(ctx context.Context, req LoginRequest) (*Session, error)
	GetByID(ctx context.Context, userID int) (*User, error)
	// Refresh exchanges a refresh token for a new access token carrying the
	// user's current role.
	Refresh(ctx context.Context, refreshToken string) (string, *User, error)
}

type service struct {
	repo   Repository
	tokens *auth.Issuer
}

func NewService(repo Repository, tokens *auth.Issuer) Service {
	return &service{repo: repo, tokens: tokens}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*Session, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.repo.Create(ctx, NewUser{
		Name:         strings.TrimSpace(req.Name),
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
		Role:         RoleUser,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("user registered", "user_id", u.ID)

	return s.session(u)
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	u, err := s.repo.FindByEmail(ctx, normalizeEmail(req.Email))
	switch {
	case errors.Is(err, ErrUserNotFound):
		return nil, ErrInvalidCredentials
	case err != nil:
		return nil, err
	}

	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}
	return s.session(u)
}

func (s *service) GetByID(ctx context.Context, userID int) (*User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (string, *User, error) {
	id, err := s.tokens.Parse(refreshToken, auth.KindRefresh)
	if err != nil {
		return "", nil, err
	}

	u, err := s.repo.FindByID(ctx, id.UserID)
	if err != nil {
		return "", nil, err
	}

	access, err := s.tokens.Access(identityOf(u))
	if err != nil {
		return "", nil, err
	}
	return access, u, nil
}

func (s *service) session(u *User) (*Session, error) {
	pair, err := s.tokens.Issue(identityOf(u))
	if err != nil {
		return nil, err
	}
	return &Session{User: u, Tokens: pair}, nil
}

func identityOf(u *User) auth.Identity {
	return auth.Identity{UserID: u.ID, Email: u.Email, Role: u.Role}
}
