package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore holds slot locks in Redis.
// Key format: slot_lock:<slot_id> -> holder user id, with per-key TTL.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a LockStore wrapping the given Redis client.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireLock claims the slot for holderID with a single SET NX EX round
// trip, so exactly one concurrent caller wins.
func (s *LockStore) AcquireLock(ctx context.Context, slotID, holderID string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.key(slotID), holderID, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire slot lock: %w", err)
	}
	return ok, nil
}

// LockHolder returns the holder id, or "" when no live lock exists.
func (s *LockStore) LockHolder(ctx context.Context, slotID string) (string, error) {
	holder, err := s.client.Get(ctx, s.key(slotID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read slot lock: %w", err)
	}
	return holder, nil
}

// ReleaseLock deletes the lock key; deleting an absent key is not an error.
func (s *LockStore) ReleaseLock(ctx context.Context, slotID string) error {
	if err := s.client.Del(ctx, s.key(slotID)).Err(); err != nil {
		return fmt.Errorf("release slot lock: %w", err)
	}
	return nil
}

func (s *LockStore) key(slotID string) string {
	return "slot_lock:" + slotID
}
