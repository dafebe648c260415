package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/amrutam/booking-system/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"success": false, "error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Malformed input → 400 with the offending field named.
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ve.Error()
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrSlotNotFound):
		return http.StatusNotFound, "slot not found"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, domain.ErrDoctorNotFound):
		return http.StatusNotFound, "doctor not found"
	case errors.Is(err, domain.ErrSlotLocked):
		return http.StatusConflict, "slot already locked"
	case errors.Is(err, domain.ErrLockNotHeld):
		return http.StatusConflict, "slot is not locked or lock expired"
	case errors.Is(err, domain.ErrLockHeldByOther):
		return http.StatusConflict, "slot is locked by another user"
	case errors.Is(err, domain.ErrSlotTaken):
		return http.StatusConflict, "slot already booked"
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "email already registered"
	case errors.Is(err, domain.ErrOTPExpired):
		return http.StatusBadRequest, "OTP expired or not found. Please request a new one."
	case errors.Is(err, domain.ErrOTPMismatch):
		return http.StatusBadRequest, "Invalid OTP. Please try again."
	case errors.Is(err, domain.ErrOTPRequired):
		return http.StatusForbidden, "OTP verification required before booking"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid email or password"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "only patients can book appointments"
	case errors.Is(err, domain.ErrDoctorNotApproved):
		return http.StatusForbidden, "doctor is not active or approved"
	case errors.Is(err, domain.ErrInvalidSlotRange):
		return http.StatusBadRequest, err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
