package ports

import (
	"context"
	"time"

	"github.com/amrutam/booking-system/internal/core/domain"
)

// RegisterDoctorInput carries doctor signup fields. The user row and the
// doctor profile are created together; the profile starts unapproved.
type RegisterDoctorInput struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	Phone           string
	Specialization  string
	Experience      int
	ConsultationFee float64
	Mode            string
	Bio             string
	Qualifications  string
}

// DoctorAuthResult is returned on successful doctor registration or login.
type DoctorAuthResult struct {
	Token  string
	User   *domain.User
	Doctor *domain.Doctor
}

// PublishSlotInput carries the fields for publishing a bookable slot.
type PublishSlotInput struct {
	DoctorID  string
	StartTime time.Time
	EndTime   time.Time
}

// DoctorService defines doctor-facing and doctor-listing use cases.
type DoctorService interface {
	Register(ctx context.Context, input RegisterDoctorInput) (*DoctorAuthResult, error)
	Login(ctx context.Context, email, password string) (*DoctorAuthResult, error)
	List(ctx context.Context, filter DoctorFilter) ([]*domain.DoctorProfile, error)
	PublishSlot(ctx context.Context, input PublishSlotInput) (*domain.Slot, error)
	Slots(ctx context.Context, doctorID string) ([]*domain.Slot, error)
}
