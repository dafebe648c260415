package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	"github.com/rs/zerolog"

	"github.com/amrutam/booking-system/internal/api/metrics"
	"github.com/amrutam/booking-system/internal/core/domain"
	"github.com/amrutam/booking-system/internal/core/ports"
)

// DefaultOTPTTL is the challenge lifetime when none is configured.
const DefaultOTPTTL = 10 * time.Minute

// DefaultOTPLength is the number of code digits when none is configured.
const DefaultOTPLength = 6

// ChallengeStore abstracts the ephemeral OTP keys (Redis).
// Key formats: otp:<email> -> code, otp_grant:<user_id> -> grant token.
type ChallengeStore interface {
	// StoreCode writes the challenge, overwriting any prior unexpired code
	// for the same email (last-issued-wins).
	StoreCode(ctx context.Context, email, code string, ttl time.Duration) error
	// Code returns the stored code, or "" when absent or expired.
	Code(ctx context.Context, email string) (string, error)
	DeleteCode(ctx context.Context, email string) error
	// StoreGrant writes the single-use booking grant for the user.
	StoreGrant(ctx context.Context, userID, token string, ttl time.Duration) error
}

// OTPMailer delivers challenge codes out of band.
type OTPMailer interface {
	SendOTP(email, code string, validity time.Duration) error
}

// OTPService issues and verifies single-use numeric challenges bound to the
// authenticated identity's email.
type OTPService struct {
	store       ChallengeStore
	mailer      OTPMailer
	users       ports.UserRepository
	codeLength  int
	ttl         time.Duration
	gateEnforce bool
	log         zerolog.Logger
}

func NewOTPService(
	store ChallengeStore,
	mailer OTPMailer,
	users ports.UserRepository,
	codeLength int,
	ttl time.Duration,
	gateEnforced bool,
	log zerolog.Logger,
) *OTPService {
	if codeLength <= 0 {
		codeLength = DefaultOTPLength
	}
	if ttl <= 0 {
		ttl = DefaultOTPTTL
	}
	return &OTPService{
		store:       store,
		mailer:      mailer,
		users:       users,
		codeLength:  codeLength,
		ttl:         ttl,
		gateEnforce: gateEnforced,
		log:         log,
	}
}

// Issue generates a fresh code, stores it under the email's challenge key,
// then hands it to the mailer. A store failure aborts before any delivery
// attempt; a delivery failure is surfaced but the stored code stays valid, so
// the caller may simply resend.
func (s *OTPService) Issue(ctx context.Context, email string) error {
	if email == "" {
		return &domain.ValidationError{Field: "email"}
	}

	code, err := generateCode(s.codeLength)
	if err != nil {
		return fmt.Errorf("issue otp: %w", err)
	}

	if err := s.store.StoreCode(ctx, email, code, s.ttl); err != nil {
		metrics.OTPIssuedTotal.WithLabelValues("store_error").Inc()
		return fmt.Errorf("issue otp: %w", err)
	}

	if err := s.mailer.SendOTP(email, code, s.ttl); err != nil {
		metrics.OTPIssuedTotal.WithLabelValues("mail_error").Inc()
		return fmt.Errorf("issue otp: send mail: %w", err)
	}

	metrics.OTPIssuedTotal.WithLabelValues("sent").Inc()
	s.log.Info().Str("email", email).Msg("otp issued")
	return nil
}

// Verify checks the submitted code against the stored challenge. On a match
// the challenge is consumed (single-use), the user's verification flag is
// flipped, and — when the OTP gate is enforced — a single-use booking grant
// is minted for the identity.
func (s *OTPService) Verify(ctx context.Context, ident ports.Identity, code string) (*ports.VerifyResult, error) {
	if ident.Email == "" {
		return nil, &domain.ValidationError{Field: "email"}
	}
	if code == "" {
		return nil, &domain.ValidationError{Field: "otp"}
	}

	stored, err := s.store.Code(ctx, ident.Email)
	if err != nil {
		return nil, fmt.Errorf("verify otp: %w", err)
	}
	if stored == "" {
		metrics.OTPVerifiedTotal.WithLabelValues("expired").Inc()
		return nil, domain.ErrOTPExpired
	}
	if stored != code {
		// Mismatch leaves the stored code untouched so the correct code can
		// still be submitted within the TTL.
		metrics.OTPVerifiedTotal.WithLabelValues("mismatch").Inc()
		return nil, domain.ErrOTPMismatch
	}

	// The code is consumed either way: a failed delete is logged, not
	// surfaced, since the key expires on its own.
	if err := s.store.DeleteCode(ctx, ident.Email); err != nil {
		s.log.Warn().Err(err).Str("email", ident.Email).Msg("failed to delete consumed otp")
	}

	if err := s.users.MarkVerified(ctx, ident.Email); err != nil {
		return nil, fmt.Errorf("verify otp: mark verified: %w", err)
	}

	result := &ports.VerifyResult{}
	if s.gateEnforce {
		grant, err := generateGrant()
		if err != nil {
			return nil, fmt.Errorf("verify otp: %w", err)
		}
		if err := s.store.StoreGrant(ctx, ident.UserID, grant, s.ttl); err != nil {
			return nil, fmt.Errorf("verify otp: store grant: %w", err)
		}
		result.BookingGrant = grant
	}

	metrics.OTPVerifiedTotal.WithLabelValues("ok").Inc()
	s.log.Info().Str("email", ident.Email).Msg("otp verified")
	return result, nil
}

// generateCode draws a uniform random integer from [0, 10^length) using a
// rejection-sampling source, so every zero-padded code is equally likely.
func generateCode(length int) (string, error) {
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", length, n), nil
}

func generateGrant() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
