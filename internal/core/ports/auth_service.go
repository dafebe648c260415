package ports

import (
	"context"

	"github.com/amrutam/booking-system/internal/core/domain"
)

// Identity is the authenticated caller as resolved from the bearer token.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

// RegisterPatientInput carries patient signup fields.
type RegisterPatientInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Phone     string
}

// AuthResult is returned on successful signup or signin.
type AuthResult struct {
	Token string
	User  *domain.User
}

// AuthService implements patient registration and login.
type AuthService interface {
	RegisterPatient(ctx context.Context, input RegisterPatientInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
}
