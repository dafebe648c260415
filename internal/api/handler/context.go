package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/amrutam/booking-system/internal/core/ports"
)

// ctxIdentity extracts the identity claims injected by the Auth middleware
// and fast-fails before any service call: user_id and role must be non-empty
// (presence proves the middleware ran and the token carried a full identity).
func ctxIdentity(c echo.Context) (ports.Identity, error) {
	userID, _ := c.Get("user_id").(string)
	email, _ := c.Get("email").(string)
	role, _ := c.Get("role").(string)

	if userID == "" || role == "" {
		return ports.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	return ports.Identity{UserID: userID, Email: email, Role: role}, nil
}
