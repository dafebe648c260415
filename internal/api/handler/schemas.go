package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// messageResponse is the envelope for operations that return no entity.
type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// --- Auth ---

type signupRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName"  validate:"required"`
	Email     string `json:"email"     validate:"required,email"`
	Password  string `json:"password"  validate:"required,min=8"`
	Phone     string `json:"phone"`
}

type signinRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	FirstName  string `json:"firstName,omitempty"`
	IsVerified bool   `json:"isVerified"`
}

type authResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message,omitempty"`
	Token   string        `json:"token"`
	User    *userResponse `json:"user"`
}

// --- Doctors ---

type registerDoctorRequest struct {
	FirstName       string  `json:"firstName"       validate:"required"`
	LastName        string  `json:"lastName"        validate:"required"`
	Email           string  `json:"email"           validate:"required,email"`
	Password        string  `json:"password"        validate:"required,min=8"`
	Phone           string  `json:"phone"`
	Specialization  string  `json:"specialization"  validate:"required"`
	Experience      int     `json:"experience"      validate:"gte=0"`
	ConsultationFee float64 `json:"consultationFee" validate:"gte=0"`
	Mode            string  `json:"mode"            validate:"required,oneof=online in_person"`
	Bio             string  `json:"bio"`
	Qualifications  string  `json:"qualifications"`
}

type createSlotRequest struct {
	DoctorID  string    `json:"doctorId"  validate:"required"`
	StartTime time.Time `json:"startTime" validate:"required"`
	EndTime   time.Time `json:"endTime"   validate:"required"`
}

// --- Booking ---

type lockSlotRequest struct {
	SlotID string `json:"slotId"`
}

type createAppointmentRequest struct {
	SlotID          string   `json:"slotId"`
	Mode            string   `json:"mode"`
	ConsultationFee *float64 `json:"consultationFee"`
	Symptoms        string   `json:"symptoms,omitempty"`
	OTPToken        string   `json:"otpToken,omitempty"`
}

type verifyOTPResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	OTPToken string `json:"otpToken,omitempty"`
}
