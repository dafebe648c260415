package ports

import (
	"context"

	"github.com/amrutam/booking-system/internal/core/domain"
)

// SlotRepository defines persistence operations for bookable slots.
type SlotRepository interface {
	Create(ctx context.Context, slot *domain.Slot) error
	FindByID(ctx context.Context, id string) (*domain.Slot, error)
	// ListByDoctor returns the doctor's slots ordered by start time ascending.
	ListByDoctor(ctx context.Context, doctorID string) ([]*domain.Slot, error)
}
