package domain

import "errors"

// OTP challenge errors. A challenge is an ephemeral numeric code bound to an
// email address; it is single-use and expires with its key.
var ErrOTPExpired = errors.New("OTP expired or not found")
var ErrOTPMismatch = errors.New("invalid OTP")

// ErrOTPRequired is returned by the booking orchestrator when the OTP gate is
// enforced and the caller presents no valid booking grant.
var ErrOTPRequired = errors.New("OTP verification required before booking")
