package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/amrutam/booking-system/internal/core/domain"
)

// tokenIssuer signs HS256 access tokens carrying the identity claims the
// auth middleware expects: user_id, email, role.
type tokenIssuer struct {
	secret string
	ttl    time.Duration
}

func newTokenIssuer(secret string, ttl time.Duration) tokenIssuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return tokenIssuer{secret: secret, ttl: ttl}
}

func (ti tokenIssuer) issue(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"exp":     time.Now().Add(ti.ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(ti.secret))
}
