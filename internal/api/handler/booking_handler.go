package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/amrutam/booking-system/internal/core/ports"
)

// BookingHandler handles the slot lock, OTP, and appointment endpoints.
type BookingHandler struct {
	bookingService ports.BookingService
	otpService     ports.OTPService
}

func NewBookingHandler(bookingService ports.BookingService, otpService ports.OTPService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService, otpService: otpService}
}

// LockSlot claims an exclusive, TTL-bounded lock on a slot for the caller.
//
// @Summary      Lock a slot ahead of booking
// @Tags         booking
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      lockSlotRequest  true  "Slot to lock"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /auth/lock-slot [post]
func (h *BookingHandler) LockSlot(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req lockSlotRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.bookingService.RequestLock(c.Request().Context(), ident, req.SlotID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Slot locked successfully"})
}

// SendOTP issues a one-time code to the caller's verified email.
//
// @Summary      Send an OTP to the caller's email
// @Tags         booking
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      500  {object}  errorResponse
// @Router       /auth/otp/send [post]
func (h *BookingHandler) SendOTP(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.otpService.Issue(c.Request().Context(), ident.Email); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "OTP sent successfully"})
}

// VerifyOTP checks the code submitted in the "otp" header against the live
// challenge for the caller's email. On success the response carries the
// single-use booking token required by appointment creation.
//
// @Summary      Verify the caller's OTP
// @Tags         booking
// @Produce      json
// @Security     BearerAuth
// @Param        otp  header    string  true  "Submitted OTP code"
// @Success      200  {object}  verifyOTPResponse
// @Failure      400  {object}  errorResponse
// @Router       /auth/otp/verify [post]
func (h *BookingHandler) VerifyOTP(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	code := c.Request().Header.Get("otp")
	if code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "OTP is required")
	}

	result, err := h.otpService.Verify(c.Request().Context(), ident, code)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, verifyOTPResponse{
		Success:  true,
		Message:  "OTP verified successfully!",
		OTPToken: result.BookingGrant,
	})
}

// CreateAppointment finalizes the booking: the caller must hold the slot
// lock, and — when the OTP gate is enforced — present the booking token from
// OTP verification.
//
// @Summary      Create an appointment
// @Tags         booking
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAppointmentRequest  true  "Booking details"
// @Success      201   {object}  map[string]any
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /auth/appointments/create [post]
func (h *BookingHandler) CreateAppointment(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	// An absent fee must fail the fee check, not zero it out; field ordering
	// stays with the service.
	fee := -1.0
	if req.ConsultationFee != nil {
		fee = *req.ConsultationFee
	}

	appt, err := h.bookingService.Finalize(c.Request().Context(), ident, ports.FinalizeBookingInput{
		SlotID:          req.SlotID,
		Mode:            req.Mode,
		ConsultationFee: fee,
		Symptoms:        req.Symptoms,
		BookingGrant:    req.OTPToken,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]any{"success": true, "appointment": appt})
}

// ListAppointments returns the caller's appointments, newest first.
//
// @Summary      List the caller's appointments
// @Tags         booking
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]any
// @Router       /auth/appointments [get]
func (h *BookingHandler) ListAppointments(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	appointments, err := h.bookingService.Appointments(c.Request().Context(), ident)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{"success": true, "appointments": appointments})
}
