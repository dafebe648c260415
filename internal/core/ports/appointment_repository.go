package ports

import (
	"context"
	"time"

	"github.com/amrutam/booking-system/internal/core/domain"
)

// PatientAppointment is an appointment joined with its slot interval and the
// doctor's display fields, as returned by the patient listing endpoint.
type PatientAppointment struct {
	domain.Appointment
	SlotStart      time.Time `json:"slot_start"`
	SlotEnd        time.Time `json:"slot_end"`
	DoctorName     string    `json:"doctor_name"`
	Specialization string    `json:"specialization"`
}

// AppointmentRepository defines persistence operations for appointments.
type AppointmentRepository interface {
	// CreateConfirmed inserts the appointment inside one transaction. A
	// unique-index violation on confirmed bookings for the slot is returned
	// as domain.ErrSlotTaken.
	CreateConfirmed(ctx context.Context, appt *domain.Appointment) error
	// ListByPatient returns the patient's appointments, newest first.
	ListByPatient(ctx context.Context, patientID string) ([]*PatientAppointment, error)
}
