package ports

import (
	"context"

	"github.com/amrutam/booking-system/internal/core/domain"
)

// SlotLocker is the slot lock manager: an exclusive, TTL-bounded claim on a
// slot held in the ephemeral store.
type SlotLocker interface {
	// Acquire claims the slot for holderID. Returns domain.ErrSlotNotFound if
	// the slot does not resolve and domain.ErrSlotLocked if a live lock
	// already exists, regardless of holder (the lock is not reentrant).
	Acquire(ctx context.Context, slotID, holderID string) error
	// Holder returns the current lock holder's user id, or "" when no live
	// lock exists.
	Holder(ctx context.Context, slotID string) (string, error)
	// Release deletes the lock key. Absence of the key is not an error.
	Release(ctx context.Context, slotID string) error
}

// VerifyResult is returned by a successful OTP verification. BookingGrant is
// a single-use token required by Finalize when the OTP gate is enforced; it
// is empty in legacy gate mode.
type VerifyResult struct {
	BookingGrant string
}

// OTPService issues and verifies short-lived numeric challenges bound to the
// authenticated identity's email.
type OTPService interface {
	Issue(ctx context.Context, email string) error
	Verify(ctx context.Context, ident Identity, code string) (*VerifyResult, error)
}

// FinalizeBookingInput carries the booking details submitted by the patient.
type FinalizeBookingInput struct {
	SlotID          string
	Mode            string
	ConsultationFee float64
	Symptoms        string
	// BookingGrant is the token returned by OTP verification; consulted only
	// when the OTP gate is enforced.
	BookingGrant string
}

// BookingService sequences slot locking, OTP gating, and the durable
// appointment write.
type BookingService interface {
	RequestLock(ctx context.Context, ident Identity, slotID string) error
	Finalize(ctx context.Context, ident Identity, input FinalizeBookingInput) (*domain.Appointment, error)
	Appointments(ctx context.Context, ident Identity) ([]*PatientAppointment, error)
}
