package service

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/amrutam/booking-system/internal/api/metrics"
	"github.com/amrutam/booking-system/internal/core/domain"
	"github.com/amrutam/booking-system/internal/core/ports"
)

// GrantConsumer redeems single-use booking grants minted by OTP verification.
type GrantConsumer interface {
	// TakeGrant atomically reads and deletes the user's grant token,
	// returning "" when none exists.
	TakeGrant(ctx context.Context, userID string) (string, error)
}

// ConfirmationNotice describes a booked appointment for the async
// confirmation mail.
type ConfirmationNotice struct {
	Email       string
	PatientName string
	StartTime   time.Time
	Mode        string
}

// ConfirmationNotifier queues confirmation notices off the request path.
type ConfirmationNotifier interface {
	Enqueue(notice ConfirmationNotice)
}

// BookingService is the booking orchestrator: it sequences the lock check,
// the OTP gate, and the transactional appointment write.
type BookingService struct {
	users        ports.UserRepository
	slots        ports.SlotRepository
	appointments ports.AppointmentRepository
	locker       ports.SlotLocker
	grants       GrantConsumer
	notifier     ConfirmationNotifier
	gateEnforce  bool
	log          zerolog.Logger
}

func NewBookingService(
	users ports.UserRepository,
	slots ports.SlotRepository,
	appointments ports.AppointmentRepository,
	locker ports.SlotLocker,
	grants GrantConsumer,
	notifier ConfirmationNotifier,
	gateEnforced bool,
	log zerolog.Logger,
) *BookingService {
	return &BookingService{
		users:        users,
		slots:        slots,
		appointments: appointments,
		locker:       locker,
		grants:       grants,
		notifier:     notifier,
		gateEnforce:  gateEnforced,
		log:          log,
	}
}

// RequestLock claims the slot for the caller ahead of OTP confirmation.
func (s *BookingService) RequestLock(ctx context.Context, ident ports.Identity, slotID string) error {
	if slotID == "" {
		return &domain.ValidationError{Field: "slotId"}
	}
	return s.locker.Acquire(ctx, slotID, ident.UserID)
}

// Finalize durably creates the appointment, consuming the caller's lock.
// No partial success: either the transaction commits and the appointment
// exists, or nothing is written. The lock release after commit is
// best-effort; the key expires on its own regardless.
func (s *BookingService) Finalize(ctx context.Context, ident ports.Identity, input ports.FinalizeBookingInput) (*domain.Appointment, error) {
	timer := prometheus.NewTimer(metrics.BookingFinalizeDuration)
	defer timer.ObserveDuration()

	// 1. Only patients book appointments.
	user, err := s.users.FindByID(ctx, ident.UserID)
	if err != nil {
		return nil, fmt.Errorf("finalize booking: %w", err)
	}
	if user.Role != domain.RolePatient {
		return nil, domain.ErrForbidden
	}

	// 2. Field-by-field validation; the first offending field wins.
	if input.SlotID == "" {
		return nil, &domain.ValidationError{Field: "slotId"}
	}
	if !domain.ValidMode(input.Mode) {
		return nil, &domain.ValidationError{Field: "mode"}
	}
	if input.ConsultationFee < 0 {
		return nil, &domain.ValidationError{Field: "consultationFee"}
	}

	// 3. Resolve the slot.
	slot, err := s.slots.FindByID(ctx, input.SlotID)
	if err != nil {
		return nil, fmt.Errorf("finalize booking: %w", err)
	}

	// 4. Only the live lock holder may finalize.
	holder, err := s.locker.Holder(ctx, input.SlotID)
	if err != nil {
		return nil, fmt.Errorf("finalize booking: %w", err)
	}
	if holder == "" {
		return nil, domain.ErrLockNotHeld
	}
	if holder != user.ID {
		return nil, domain.ErrLockHeldByOther
	}

	// 5. OTP gate. Consumed last among the checks so an earlier failure does
	// not burn the grant.
	if s.gateEnforce {
		grant, err := s.grants.TakeGrant(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("finalize booking: %w", err)
		}
		if grant == "" || grant != input.BookingGrant {
			return nil, domain.ErrOTPRequired
		}
	}

	// 6. One transaction: the confirmed insert. Never retried.
	now := time.Now().UTC()
	appt := &domain.Appointment{
		SlotID:          slot.ID,
		PatientID:       user.ID,
		DoctorID:        slot.DoctorID,
		Status:          domain.AppointmentConfirmed,
		Mode:            input.Mode,
		ConsultationFee: input.ConsultationFee,
		Symptoms:        input.Symptoms,
		ConfirmedAt:     now,
		CreatedAt:       now,
	}
	if err := s.appointments.CreateConfirmed(ctx, appt); err != nil {
		return nil, fmt.Errorf("finalize booking: %w", err)
	}

	// 7. Post-commit: release the lock and queue the confirmation mail. Both
	// are best-effort; the appointment is already durable.
	if err := s.locker.Release(ctx, slot.ID); err != nil {
		s.log.Warn().Err(err).Str("slot_id", slot.ID).Msg("failed to release slot lock after booking")
	}
	if s.notifier != nil {
		s.notifier.Enqueue(ConfirmationNotice{
			Email:       user.Email,
			PatientName: user.FirstName,
			StartTime:   slot.StartTime,
			Mode:        appt.Mode,
		})
	}

	metrics.AppointmentsConfirmedTotal.WithLabelValues(appt.Mode).Inc()
	s.log.Info().
		Str("appointment_id", appt.ID).
		Str("slot_id", slot.ID).
		Str("patient_id", user.ID).
		Msg("appointment confirmed")

	return appt, nil
}

// Appointments lists the caller's bookings, newest first.
func (s *BookingService) Appointments(ctx context.Context, ident ports.Identity) ([]*ports.PatientAppointment, error) {
	return s.appointments.ListByPatient(ctx, ident.UserID)
}
