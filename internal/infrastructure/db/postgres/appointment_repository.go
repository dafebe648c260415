package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amrutam/booking-system/internal/core/domain"
	"github.com/amrutam/booking-system/internal/core/ports"
)

// AppointmentRepository persists appointments.
type AppointmentRepository struct {
	pool *pgxpool.Pool
}

func NewAppointmentRepository(pool *pgxpool.Pool) *AppointmentRepository {
	return &AppointmentRepository{pool: pool}
}

// CreateConfirmed inserts the appointment inside one transaction. The partial
// unique index on confirmed bookings per slot backs the lock check: a second
// confirmed insert for the same slot fails with domain.ErrSlotTaken instead
// of producing a double booking.
func (r *AppointmentRepository) CreateConfirmed(ctx context.Context, a *domain.Appointment) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}
	defer tx.Rollback(ctx)

	var symptoms *string
	if a.Symptoms != "" {
		symptoms = &a.Symptoms
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO appointments (id, slot_id, patient_id, doctor_id, status, mode, consultation_fee, symptoms, confirmed_at, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		a.ID, a.SlotID, a.PatientID, a.DoctorID, a.Status, a.Mode,
		a.ConsultationFee, symptoms, a.ConfirmedAt, a.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "appointments_confirmed_slot_idx") {
			return domain.ErrSlotTaken
		}
		return fmt.Errorf("insert appointment: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}
	return nil
}

// ListByPatient returns the patient's appointments joined with slot intervals
// and doctor display fields, newest first.
func (r *AppointmentRepository) ListByPatient(ctx context.Context, patientID string) ([]*ports.PatientAppointment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT a.id, a.slot_id, a.patient_id, a.doctor_id, a.status, a.mode,
		        a.consultation_fee, COALESCE(a.symptoms, ''), a.confirmed_at, a.created_at,
		        s.start_time, s.end_time,
		        u.first_name || ' ' || u.last_name, d.specialization
		 FROM appointments a
		 JOIN slots s   ON s.id = a.slot_id
		 JOIN doctors d ON d.id = a.doctor_id
		 JOIN users u   ON u.id = d.user_id
		 WHERE a.patient_id = $1
		 ORDER BY a.created_at DESC`, patientID,
	)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	var out []*ports.PatientAppointment
	for rows.Next() {
		pa := &ports.PatientAppointment{}
		if err := rows.Scan(
			&pa.ID, &pa.SlotID, &pa.PatientID, &pa.DoctorID, &pa.Status, &pa.Mode,
			&pa.ConsultationFee, &pa.Symptoms, &pa.ConfirmedAt, &pa.CreatedAt,
			&pa.SlotStart, &pa.SlotEnd, &pa.DoctorName, &pa.Specialization,
		); err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		out = append(out, pa)
	}
	return out, rows.Err()
}
