package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amrutam/booking-system/internal/core/domain"
)

// SlotRepository persists bookable slots.
type SlotRepository struct {
	pool *pgxpool.Pool
}

func NewSlotRepository(pool *pgxpool.Pool) *SlotRepository {
	return &SlotRepository{pool: pool}
}

func (r *SlotRepository) Create(ctx context.Context, s *domain.Slot) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO slots (id, doctor_id, start_time, end_time, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		s.ID, s.DoctorID, s.StartTime, s.EndTime, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert slot: %w", err)
	}
	return nil
}

func (r *SlotRepository) FindByID(ctx context.Context, id string) (*domain.Slot, error) {
	s := &domain.Slot{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, doctor_id, start_time, end_time, created_at
		 FROM slots WHERE id = $1`, id,
	).Scan(&s.ID, &s.DoctorID, &s.StartTime, &s.EndTime, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find slot: %w", err)
	}
	return s, nil
}

func (r *SlotRepository) ListByDoctor(ctx context.Context, doctorID string) ([]*domain.Slot, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, doctor_id, start_time, end_time, created_at
		 FROM slots WHERE doctor_id = $1
		 ORDER BY start_time`, doctorID,
	)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	var out []*domain.Slot
	for rows.Next() {
		s := &domain.Slot{}
		if err := rows.Scan(&s.ID, &s.DoctorID, &s.StartTime, &s.EndTime, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
