package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/amrutam/booking-system/internal/core/ports"
)

// DoctorHandler handles doctor registration, login, listings, and slot
// publishing.
type DoctorHandler struct {
	doctorService ports.DoctorService
}

func NewDoctorHandler(doctorService ports.DoctorService) *DoctorHandler {
	return &DoctorHandler{doctorService: doctorService}
}

// Register creates a doctor account pending admin approval.
//
// @Summary      Register a new doctor
// @Tags         doctors
// @Accept       json
// @Produce      json
// @Param        body  body      registerDoctorRequest  true  "Doctor registration details"
// @Success      201   {object}  map[string]any
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /doctors/register [post]
func (h *DoctorHandler) Register(c echo.Context) error {
	var req registerDoctorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.doctorService.Register(c.Request().Context(), ports.RegisterDoctorInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Password:        req.Password,
		Phone:           req.Phone,
		Specialization:  req.Specialization,
		Experience:      req.Experience,
		ConsultationFee: req.ConsultationFee,
		Mode:            req.Mode,
		Bio:             req.Bio,
		Qualifications:  req.Qualifications,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"success": true,
		"message": "Doctor registered successfully. Awaiting admin approval.",
		"token":   result.Token,
		"user":    toUserResponse(result.User),
		"doctor":  result.Doctor,
	})
}

// Login authenticates a doctor account.
//
// @Summary      Doctor login
// @Tags         doctors
// @Accept       json
// @Produce      json
// @Param        body  body      signinRequest  true  "Login credentials"
// @Success      200   {object}  map[string]any
// @Failure      401   {object}  errorResponse
// @Router       /doctors/login [post]
func (h *DoctorHandler) Login(c echo.Context) error {
	var req signinRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.doctorService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Login successful",
		"token":   result.Token,
		"user":    toUserResponse(result.User),
	})
}

// List returns doctors, optionally filtered by specialization and mode.
//
// @Summary      List doctors
// @Tags         doctors
// @Produce      json
// @Param        specialization  query  string  false  "Filter by specialization"
// @Param        mode            query  string  false  "Filter by consultation mode"
// @Success      200  {object}  map[string]any
// @Router       /doctors [get]
func (h *DoctorHandler) List(c echo.Context) error {
	doctors, err := h.doctorService.List(c.Request().Context(), ports.DoctorFilter{
		Specialization: c.QueryParam("specialization"),
		Mode:           c.QueryParam("mode"),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{"success": true, "doctors": doctors})
}

// Slots returns a doctor's published slots, ascending by start time.
//
// @Summary      List a doctor's slots
// @Tags         doctors
// @Produce      json
// @Param        doctorId  query  string  true  "Doctor id"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  errorResponse
// @Router       /doctors/slots [get]
func (h *DoctorHandler) Slots(c echo.Context) error {
	doctorID := c.QueryParam("doctorId")
	slots, err := h.doctorService.Slots(c.Request().Context(), doctorID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":  true,
		"doctorId": doctorID,
		"slots":    slots,
	})
}

// PublishSlot creates a bookable slot for an active, approved doctor.
//
// @Summary      Publish a bookable slot
// @Tags         doctors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createSlotRequest  true  "Slot interval"
// @Success      201   {object}  map[string]any
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /doctors/slots [post]
func (h *DoctorHandler) PublishSlot(c echo.Context) error {
	var req createSlotRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	slot, err := h.doctorService.PublishSlot(c.Request().Context(), ports.PublishSlotInput{
		DoctorID:  req.DoctorID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]any{"success": true, "slot": slot})
}
