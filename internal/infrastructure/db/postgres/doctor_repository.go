package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amrutam/booking-system/internal/core/domain"
	"github.com/amrutam/booking-system/internal/core/ports"
)

// DoctorRepository persists doctor profiles.
type DoctorRepository struct {
	pool *pgxpool.Pool
}

func NewDoctorRepository(pool *pgxpool.Pool) *DoctorRepository {
	return &DoctorRepository{pool: pool}
}

// CreateWithUser inserts the user row and the doctor profile in one
// transaction; a doctor profile never exists without its user.
func (r *DoctorRepository) CreateWithUser(ctx context.Context, u *domain.User, d *domain.Doctor) (*domain.User, *domain.Doctor, error) {
	createdUser := *u
	if createdUser.ID == "" {
		createdUser.ID = uuid.New().String()
	}
	createdDoctor := *d
	if createdDoctor.ID == "" {
		createdDoctor.ID = uuid.New().String()
	}
	createdDoctor.UserID = createdUser.ID

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("register doctor: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO users (id, first_name, last_name, email, password_hash, phone, role, is_verified, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		createdUser.ID, createdUser.FirstName, createdUser.LastName, createdUser.Email,
		createdUser.PasswordHash, createdUser.Phone, createdUser.Role, createdUser.IsVerified,
		createdUser.CreatedAt, createdUser.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "users_email_key") {
			return nil, nil, domain.ErrUserExists
		}
		return nil, nil, fmt.Errorf("insert doctor user: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO doctors (id, user_id, specialization, experience, consultation_fee, mode, bio, qualifications, rating, total_reviews, is_approved, is_active, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		createdDoctor.ID, createdDoctor.UserID, createdDoctor.Specialization,
		createdDoctor.Experience, createdDoctor.ConsultationFee, createdDoctor.Mode,
		createdDoctor.Bio, createdDoctor.Qualifications, createdDoctor.Rating,
		createdDoctor.TotalReviews, createdDoctor.IsApproved, createdDoctor.IsActive,
		createdDoctor.CreatedAt,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("insert doctor profile: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("register doctor: %w", err)
	}
	return &createdUser, &createdDoctor, nil
}

func (r *DoctorRepository) FindByID(ctx context.Context, id string) (*domain.Doctor, error) {
	d := &domain.Doctor{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, specialization, experience, consultation_fee, mode,
		        bio, qualifications, rating, total_reviews, is_approved, is_active, created_at
		 FROM doctors WHERE id = $1`, id,
	).Scan(&d.ID, &d.UserID, &d.Specialization, &d.Experience, &d.ConsultationFee,
		&d.Mode, &d.Bio, &d.Qualifications, &d.Rating, &d.TotalReviews,
		&d.IsApproved, &d.IsActive, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrDoctorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find doctor: %w", err)
	}
	return d, nil
}

func (r *DoctorRepository) List(ctx context.Context, filter ports.DoctorFilter) ([]*domain.DoctorProfile, error) {
	q := `SELECT d.id, d.user_id, d.specialization, d.experience, d.consultation_fee, d.mode,
	             d.bio, d.qualifications, d.rating, d.total_reviews, d.is_approved, d.is_active, d.created_at,
	             u.first_name, u.last_name, u.email, u.phone
	      FROM doctors d JOIN users u ON u.id = d.user_id`

	var conds []string
	var args []any
	if filter.Specialization != "" {
		args = append(args, filter.Specialization)
		conds = append(conds, fmt.Sprintf("LOWER(d.specialization) = LOWER($%d)", len(args)))
	}
	if filter.Mode != "" {
		args = append(args, filter.Mode)
		conds = append(conds, fmt.Sprintf("d.mode = $%d", len(args)))
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY d.created_at DESC"

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	defer rows.Close()

	var out []*domain.DoctorProfile
	for rows.Next() {
		p := &domain.DoctorProfile{}
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.Specialization, &p.Experience, &p.ConsultationFee,
			&p.Mode, &p.Bio, &p.Qualifications, &p.Rating, &p.TotalReviews,
			&p.IsApproved, &p.IsActive, &p.CreatedAt,
			&p.FirstName, &p.LastName, &p.Email, &p.Phone,
		); err != nil {
			return nil, fmt.Errorf("scan doctor: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
