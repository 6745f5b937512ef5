package ports

import (
	"context"

	"github.com/profilehub/membership-service/internal/core/domain"
)

// UserRepository defines persistence operations for users. Implementations
// must be read-after-write consistent for a single caller.
type UserRepository interface {
	// FindByID returns domain.ErrUserNotFound when no user has the given id.
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByEmail returns domain.ErrUserNotFound when no user has the given email.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindAll(ctx context.Context) ([]*domain.User, error)
	// Save inserts the user or replaces the stored user with the same id.
	Save(ctx context.Context, user *domain.User) error
}
