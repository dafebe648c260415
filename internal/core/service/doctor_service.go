package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/amrutam/booking-system/internal/core/domain"
	"github.com/amrutam/booking-system/internal/core/ports"
)

// DoctorService implements doctor registration, login, listing, and slot
// publishing.
type DoctorService struct {
	doctors ports.DoctorRepository
	users   ports.UserRepository
	slots   ports.SlotRepository
	tokens  tokenIssuer
	log     zerolog.Logger
}

func NewDoctorService(
	doctors ports.DoctorRepository,
	users ports.UserRepository,
	slots ports.SlotRepository,
	jwtSecret string,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *DoctorService {
	return &DoctorService{
		doctors: doctors,
		users:   users,
		slots:   slots,
		tokens:  newTokenIssuer(jwtSecret, tokenTTL),
		log:     log,
	}
}

// Register creates the user row and the doctor profile in one transaction.
// The profile starts with IsApproved=false and awaits admin approval.
func (s *DoctorService) Register(ctx context.Context, input ports.RegisterDoctorInput) (*ports.DoctorAuthResult, error) {
	if input.Email == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: string(hash),
		Phone:        input.Phone,
		Role:         domain.RoleDoctor,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	doctor := &domain.Doctor{
		Specialization:  input.Specialization,
		Experience:      input.Experience,
		ConsultationFee: input.ConsultationFee,
		Mode:            input.Mode,
		Bio:             input.Bio,
		Qualifications:  input.Qualifications,
		IsApproved:      false,
		IsActive:        true,
		CreatedAt:       now,
	}

	createdUser, createdDoctor, err := s.doctors.CreateWithUser(ctx, user, doctor)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.issue(createdUser)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("doctor_id", createdDoctor.ID).Str("email", createdUser.Email).Msg("doctor registered, awaiting approval")

	return &ports.DoctorAuthResult{Token: token, User: createdUser, Doctor: createdDoctor}, nil
}

func (s *DoctorService) Login(ctx context.Context, email, password string) (*ports.DoctorAuthResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user.Role != domain.RoleDoctor {
		return nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.issue(user)
	if err != nil {
		return nil, err
	}

	return &ports.DoctorAuthResult{Token: token, User: user}, nil
}

func (s *DoctorService) List(ctx context.Context, filter ports.DoctorFilter) ([]*domain.DoctorProfile, error) {
	return s.doctors.List(ctx, filter)
}

// PublishSlot creates a bookable slot for an active, approved doctor.
func (s *DoctorService) PublishSlot(ctx context.Context, input ports.PublishSlotInput) (*domain.Slot, error) {
	if input.DoctorID == "" {
		return nil, &domain.ValidationError{Field: "doctorId"}
	}
	if !input.StartTime.Before(input.EndTime) {
		return nil, domain.ErrInvalidSlotRange
	}

	doctor, err := s.doctors.FindByID(ctx, input.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("publish slot: %w", err)
	}
	if !doctor.Bookable() {
		return nil, domain.ErrDoctorNotApproved
	}

	slot := &domain.Slot{
		DoctorID:  doctor.ID,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.slots.Create(ctx, slot); err != nil {
		return nil, fmt.Errorf("publish slot: %w", err)
	}

	return slot, nil
}

func (s *DoctorService) Slots(ctx context.Context, doctorID string) ([]*domain.Slot, error) {
	if doctorID == "" {
		return nil, &domain.ValidationError{Field: "doctorId"}
	}
	return s.slots.ListByDoctor(ctx, doctorID)
}
