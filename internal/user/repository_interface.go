package user

import "context"

// Repository stores accounts. Emails are compared as given; callers
// normalize them first.
type Repository interface {
	// Create returns ErrEmailExists when the email is already registered.
	Create(ctx context.Context, nu NewUser) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int) (*User, error)
}
