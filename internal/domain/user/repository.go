package user

import (
	"context"

	"github.com/google/uuid"

	"github.com/outdoor-rental/service-rental/internal/common/auth"
)

// UserRepository defines persistence operations for accounts.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail looks up by normalized email; NotFound if absent.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// Save inserts a new user; Conflict if the email is taken.
	Save(ctx context.Context, u *User) error

	UpdateIdentityDocument(ctx context.Context, id uuid.UUID, blob string) error

	CountByRole(ctx context.Context, role auth.Role) (int64, error)
}
