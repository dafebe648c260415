package domain

import (
	"errors"
	"time"
)

var ErrDoctorNotFound = errors.New("doctor not found")
var ErrDoctorNotApproved = errors.New("doctor is not active or approved")

// Doctor is the professional profile attached 1:1 to a User with role
// "doctor". New registrations start with IsApproved=false and become bookable
// only once an admin approves them and the profile is active.
type Doctor struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Specialization  string    `json:"specialization"`
	Experience      int       `json:"experience"`
	ConsultationFee float64   `json:"consultation_fee"`
	Mode            string    `json:"mode"`
	Bio             string    `json:"bio,omitempty"`
	Qualifications  string    `json:"qualifications,omitempty"`
	Rating          float64   `json:"rating"`
	TotalReviews    int       `json:"total_reviews"`
	IsApproved      bool      `json:"is_approved"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

// Bookable reports whether slots published by this doctor may be booked.
func (d *Doctor) Bookable() bool {
	return d.IsActive && d.IsApproved
}

// DoctorProfile is a doctor joined with the contact fields of its user row,
// used by the listing endpoints.
type DoctorProfile struct {
	Doctor
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
}
