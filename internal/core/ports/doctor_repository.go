package ports

import (
	"context"

	"github.com/amrutam/booking-system/internal/core/domain"
)

// DoctorFilter carries the optional query parameters for listing doctors.
type DoctorFilter struct {
	Specialization string // case-insensitive exact match when non-empty
	Mode           string // exact match when non-empty
}

// DoctorRepository defines persistence operations for doctor profiles.
type DoctorRepository interface {
	// CreateWithUser inserts the user row and the doctor profile in a single
	// transaction; a doctor profile never exists without its user.
	CreateWithUser(ctx context.Context, user *domain.User, doctor *domain.Doctor) (*domain.User, *domain.Doctor, error)
	FindByID(ctx context.Context, id string) (*domain.Doctor, error)
	List(ctx context.Context, filter DoctorFilter) ([]*domain.DoctorProfile, error)
}
