package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// OTPStore holds OTP challenges and booking grants in Redis.
// Key formats: otp:<email> -> code, otp_grant:<user_id> -> grant token.
type OTPStore struct {
	client *redis.Client
}

// NewOTPStore creates an OTPStore wrapping the given Redis client.
func NewOTPStore(client *redis.Client) *OTPStore {
	return &OTPStore{client: client}
}

// StoreCode writes the challenge, overwriting any prior unexpired code for
// the same email (last-issued-wins).
func (s *OTPStore) StoreCode(ctx context.Context, email, code string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.codeKey(email), code, ttl).Err(); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}
	return nil
}

// Code returns the stored code, or "" when absent or expired.
func (s *OTPStore) Code(ctx context.Context, email string) (string, error) {
	code, err := s.client.Get(ctx, s.codeKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read otp: %w", err)
	}
	return code, nil
}

func (s *OTPStore) DeleteCode(ctx context.Context, email string) error {
	if err := s.client.Del(ctx, s.codeKey(email)).Err(); err != nil {
		return fmt.Errorf("delete otp: %w", err)
	}
	return nil
}

// StoreGrant writes the single-use booking grant for the user.
func (s *OTPStore) StoreGrant(ctx context.Context, userID, token string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.grantKey(userID), token, ttl).Err(); err != nil {
		return fmt.Errorf("store booking grant: %w", err)
	}
	return nil
}

// TakeGrant atomically reads and deletes the user's grant (GETDEL), so a
// grant can back at most one finalize attempt.
func (s *OTPStore) TakeGrant(ctx context.Context, userID string) (string, error) {
	token, err := s.client.GetDel(ctx, s.grantKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("take booking grant: %w", err)
	}
	return token, nil
}

func (s *OTPStore) codeKey(email string) string {
	return "otp:" + email
}

func (s *OTPStore) grantKey(userID string) string {
	return "otp_grant:" + userID
}
