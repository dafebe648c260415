package ports

import (
	"context"

	"github.com/amrutam/booking-system/internal/core/domain"
)

// UserRepository defines persistence operations for user identity records.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// MarkVerified flips the is_verified flag for the user with this email.
	MarkVerified(ctx context.Context, email string) error
}
