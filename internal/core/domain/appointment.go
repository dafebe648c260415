package domain

import (
	"errors"
	"time"
)

// AppointmentStatus represents the lifecycle state of an appointment.
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// Consultation modes.
const (
	ModeOnline   = "online"
	ModeInPerson = "in_person"
)

// ErrSlotTaken is returned when a confirmed appointment already exists for the
// slot (unique-index violation inside the booking transaction).
var ErrSlotTaken = errors.New("slot already booked")

// Appointment is the durable record of a finalized booking. Creation is
// immutable: the core writes each appointment exactly once, inside a single
// transaction, and never updates it.
type Appointment struct {
	ID              string            `json:"id"`
	SlotID          string            `json:"slot_id"`
	PatientID       string            `json:"patient_id"`
	DoctorID        string            `json:"doctor_id"`
	Status          AppointmentStatus `json:"status"`
	Mode            string            `json:"mode"`
	ConsultationFee float64           `json:"consultation_fee"`
	Symptoms        string            `json:"symptoms,omitempty"`
	ConfirmedAt     time.Time         `json:"confirmed_at"`
	CreatedAt       time.Time         `json:"created_at"`
}

// ValidMode reports whether mode is a known consultation mode.
func ValidMode(mode string) bool {
	return mode == ModeOnline || mode == ModeInPerson
}
