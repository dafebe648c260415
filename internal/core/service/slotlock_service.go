package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/amrutam/booking-system/internal/api/metrics"
	"github.com/amrutam/booking-system/internal/core/domain"
	"github.com/amrutam/booking-system/internal/core/ports"
)

// DefaultLockTTL is the lifetime of a slot lock when none is configured.
const DefaultLockTTL = 10 * time.Minute

// LockStore abstracts the ephemeral lock keys (Redis).
// Key format: slot_lock:<slot_id> -> holder user id, with per-key TTL.
type LockStore interface {
	// AcquireLock atomically sets the key only if absent (SET NX EX) and
	// reports whether this caller won the claim.
	AcquireLock(ctx context.Context, slotID, holderID string, ttl time.Duration) (bool, error)
	// LockHolder returns the holder id, or "" when no live lock exists.
	LockHolder(ctx context.Context, slotID string) (string, error)
	// ReleaseLock deletes the key; deleting an absent key is not an error.
	ReleaseLock(ctx context.Context, slotID string) error
}

// SlotLockService is the slot lock manager. Contention between concurrent
// bookers is resolved entirely by the store's atomic conditional set; the
// service holds no in-process state.
type SlotLockService struct {
	slots ports.SlotRepository
	store LockStore
	ttl   time.Duration
	log   zerolog.Logger
}

func NewSlotLockService(slots ports.SlotRepository, store LockStore, ttl time.Duration, log zerolog.Logger) *SlotLockService {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	return &SlotLockService{slots: slots, store: store, ttl: ttl, log: log}
}

// Acquire claims the slot for holderID. Exactly one of any set of concurrent
// callers wins; everyone else gets domain.ErrSlotLocked. The lock is not
// reentrant: a holder re-acquiring its own live lock is also rejected.
func (s *SlotLockService) Acquire(ctx context.Context, slotID, holderID string) error {
	if _, err := s.slots.FindByID(ctx, slotID); err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}

	ok, err := s.store.AcquireLock(ctx, slotID, holderID, s.ttl)
	if err != nil {
		metrics.LocksAcquiredTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		metrics.LocksAcquiredTotal.WithLabelValues("conflict").Inc()
		return domain.ErrSlotLocked
	}

	metrics.LocksAcquiredTotal.WithLabelValues("acquired").Inc()
	s.log.Info().Str("slot_id", slotID).Str("holder_id", holderID).Dur("ttl", s.ttl).Msg("slot locked")
	return nil
}

func (s *SlotLockService) Holder(ctx context.Context, slotID string) (string, error) {
	holder, err := s.store.LockHolder(ctx, slotID)
	if err != nil {
		return "", fmt.Errorf("read lock: %w", err)
	}
	return holder, nil
}

func (s *SlotLockService) Release(ctx context.Context, slotID string) error {
	if err := s.store.ReleaseLock(ctx, slotID); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}
