package repository

import (
	"context"

	"github.com/google/uuid"
)

// AuthRepository defines the interface for authentication data operations.
// Services depend on this abstraction so tests can substitute fakes.
type AuthRepository interface {
	CreateUser(ctx context.Context, params CreateUserParams) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, firstName, lastName string, phone *string) (User, error)
	UpdateRole(ctx context.Context, userID uuid.UUID, role string) (User, error)
	ListUsers(ctx context.Context, role string, limit, offset int) ([]User, error)
	CountByRole(ctx context.Context, role string) (int, error)
}

// Ensure Repository implements AuthRepository
var _ AuthRepository = (*Repository)(nil)
