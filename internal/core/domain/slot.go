package domain

import (
	"errors"
	"time"
)

var ErrSlotNotFound = errors.New("slot not found")
var ErrInvalidSlotRange = errors.New("startTime must be before endTime")

// Lock errors. A slot lock is an ephemeral, time-boxed exclusive claim on a
// slot; at most one live lock exists per slot at any time.
var ErrSlotLocked = errors.New("slot already locked")
var ErrLockNotHeld = errors.New("slot is not locked or lock expired")
var ErrLockHeldByOther = errors.New("slot is locked by another user")

// Slot is a doctor-published bookable half-open interval [StartTime, EndTime).
// Concurrent-booking uniqueness is enforced by the slot lock plus the partial
// unique index on confirmed appointments, not by mutating the slot row.
type Slot struct {
	ID        string    `json:"id"`
	DoctorID  string    `json:"doctor_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
}
