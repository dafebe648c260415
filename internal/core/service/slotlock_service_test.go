package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/amrutam/booking-system/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stubs: slot repository and TTL-aware lock store
// ---------------------------------------------------------------------------

type stubSlotRepo struct {
	slots     map[string]*domain.Slot
	seq       int
	createErr error
}

func newStubSlotRepo() *stubSlotRepo {
	return &stubSlotRepo{slots: make(map[string]*domain.Slot)}
}

func (r *stubSlotRepo) Create(_ context.Context, slot *domain.Slot) error {
	if r.createErr != nil {
		return r.createErr
	}
	if slot.ID == "" {
		r.seq++
		slot.ID = fmt.Sprintf("slot-%d", r.seq)
	}
	clone := *slot
	r.slots[slot.ID] = &clone
	return nil
}

func (r *stubSlotRepo) FindByID(_ context.Context, id string) (*domain.Slot, error) {
	s, ok := r.slots[id]
	if !ok {
		return nil, domain.ErrSlotNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *stubSlotRepo) ListByDoctor(_ context.Context, doctorID string) ([]*domain.Slot, error) {
	var out []*domain.Slot
	for _, s := range r.slots {
		if s.DoctorID == doctorID {
			clone := *s
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubSlotRepo) seed(id, doctorID string) *domain.Slot {
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	s := &domain.Slot{ID: id, DoctorID: doctorID, StartTime: start, EndTime: start.Add(30 * time.Minute)}
	r.slots[id] = s
	return s
}

type lockEntry struct {
	holder    string
	expiresAt time.Time
}

// stubLockStore mimics Redis SET NX EX semantics with an injectable clock.
type stubLockStore struct {
	mu      sync.Mutex
	entries map[string]lockEntry
	now     func() time.Time
	lastTTL time.Duration
	failErr error
}

func newStubLockStore() *stubLockStore {
	return &stubLockStore{
		entries: make(map[string]lockEntry),
		now:     time.Now,
	}
}

func (s *stubLockStore) AcquireLock(_ context.Context, slotID, holderID string, ttl time.Duration) (bool, error) {
	if s.failErr != nil {
		return false, s.failErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastTTL = ttl
	if e, ok := s.entries[slotID]; ok && e.expiresAt.After(s.now()) {
		return false, nil
	}
	s.entries[slotID] = lockEntry{holder: holderID, expiresAt: s.now().Add(ttl)}
	return true, nil
}

func (s *stubLockStore) LockHolder(_ context.Context, slotID string) (string, error) {
	if s.failErr != nil {
		return "", s.failErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[slotID]
	if !ok || !e.expiresAt.After(s.now()) {
		return "", nil
	}
	return e.holder, nil
}

func (s *stubLockStore) ReleaseLock(_ context.Context, slotID string) error {
	if s.failErr != nil {
		return s.failErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, slotID)
	return nil
}

// ---------------------------------------------------------------------------
// Acquire tests
// ---------------------------------------------------------------------------

func TestSlotLock_Acquire_Success(t *testing.T) {
	slots := newStubSlotRepo()
	slots.seed("slot-1", "doc-1")
	store := newStubLockStore()
	svc := NewSlotLockService(slots, store, 10*time.Minute, discardLogger)

	if err := svc.Acquire(context.Background(), "slot-1", "user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	holder, err := svc.Holder(context.Background(), "slot-1")
	if err != nil {
		t.Fatalf("holder: %v", err)
	}
	if holder != "user-1" {
		t.Errorf("expected holder user-1, got %q", holder)
	}
	if store.lastTTL != 10*time.Minute {
		t.Errorf("expected 10m TTL on the key, got %v", store.lastTTL)
	}
}

func TestSlotLock_Acquire_UnknownSlot(t *testing.T) {
	svc := NewSlotLockService(newStubSlotRepo(), newStubLockStore(), 0, discardLogger)

	err := svc.Acquire(context.Background(), "no-such-slot", "user-1")
	if !errors.Is(err, domain.ErrSlotNotFound) {
		t.Errorf("expected ErrSlotNotFound, got %v", err)
	}
}

func TestSlotLock_Acquire_ConflictOtherHolder(t *testing.T) {
	slots := newStubSlotRepo()
	slots.seed("slot-1", "doc-1")
	svc := NewSlotLockService(slots, newStubLockStore(), time.Minute, discardLogger)

	if err := svc.Acquire(context.Background(), "slot-1", "user-1"); err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	err := svc.Acquire(context.Background(), "slot-1", "user-2")
	if !errors.Is(err, domain.ErrSlotLocked) {
		t.Errorf("expected ErrSlotLocked, got %v", err)
	}

	// The original claim is untouched.
	holder, _ := svc.Holder(context.Background(), "slot-1")
	if holder != "user-1" {
		t.Errorf("conflict must not displace the holder, got %q", holder)
	}
}

func TestSlotLock_Acquire_NotReentrant(t *testing.T) {
	slots := newStubSlotRepo()
	slots.seed("slot-1", "doc-1")
	svc := NewSlotLockService(slots, newStubLockStore(), time.Minute, discardLogger)

	if err := svc.Acquire(context.Background(), "slot-1", "user-1"); err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	// The same holder re-acquiring its own live lock is also a conflict.
	err := svc.Acquire(context.Background(), "slot-1", "user-1")
	if !errors.Is(err, domain.ErrSlotLocked) {
		t.Errorf("expected ErrSlotLocked on re-acquire, got %v", err)
	}
}

func TestSlotLock_Acquire_AfterExpiry(t *testing.T) {
	slots := newStubSlotRepo()
	slots.seed("slot-1", "doc-1")
	store := newStubLockStore()
	current := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }
	svc := NewSlotLockService(slots, store, 10*time.Minute, discardLogger)

	if err := svc.Acquire(context.Background(), "slot-1", "user-1"); err != nil {
		t.Fatalf("first acquire: %v", err)
	}

	// Just before expiry the claim still stands.
	current = current.Add(10*time.Minute - time.Second)
	if err := svc.Acquire(context.Background(), "slot-1", "user-2"); !errors.Is(err, domain.ErrSlotLocked) {
		t.Fatalf("lock should still be live, got %v", err)
	}

	// Past the TTL the key is gone and anyone may claim.
	current = current.Add(2 * time.Second)
	if err := svc.Acquire(context.Background(), "slot-1", "user-2"); err != nil {
		t.Fatalf("expected acquire after expiry, got %v", err)
	}
	holder, _ := svc.Holder(context.Background(), "slot-1")
	if holder != "user-2" {
		t.Errorf("expected new holder user-2, got %q", holder)
	}
}

func TestSlotLock_Acquire_ConcurrentSingleWinner(t *testing.T) {
	slots := newStubSlotRepo()
	slots.seed("slot-1", "doc-1")
	svc := NewSlotLockService(slots, newStubLockStore(), time.Minute, discardLogger)

	const contenders = 32
	var wg sync.WaitGroup
	errs := make([]error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = svc.Acquire(context.Background(), "slot-1", fmt.Sprintf("user-%d", i))
		}(i)
	}
	wg.Wait()

	winners := 0
	for i, err := range errs {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, domain.ErrSlotLocked):
		default:
			t.Errorf("contender %d: unexpected error %v", i, err)
		}
	}
	if winners != 1 {
		t.Errorf("expected exactly one winner, got %d", winners)
	}
}

func TestSlotLock_Acquire_StoreError(t *testing.T) {
	slots := newStubSlotRepo()
	slots.seed("slot-1", "doc-1")
	store := newStubLockStore()
	store.failErr = errors.New("redis down")
	svc := NewSlotLockService(slots, store, time.Minute, discardLogger)

	if err := svc.Acquire(context.Background(), "slot-1", "user-1"); err == nil {
		t.Fatal("expected error when the store fails, got nil")
	}
}

// ---------------------------------------------------------------------------
// Holder / Release tests
// ---------------------------------------------------------------------------

func TestSlotLock_Holder_EmptyWhenUnlocked(t *testing.T) {
	svc := NewSlotLockService(newStubSlotRepo(), newStubLockStore(), time.Minute, discardLogger)

	holder, err := svc.Holder(context.Background(), "slot-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if holder != "" {
		t.Errorf("expected empty holder, got %q", holder)
	}
}

func TestSlotLock_Release_Idempotent(t *testing.T) {
	slots := newStubSlotRepo()
	slots.seed("slot-1", "doc-1")
	svc := NewSlotLockService(slots, newStubLockStore(), time.Minute, discardLogger)

	if err := svc.Acquire(context.Background(), "slot-1", "user-1"); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if err := svc.Release(context.Background(), "slot-1"); err != nil {
		t.Fatalf("release: %v", err)
	}
	// Releasing an already-released lock is not an error.
	if err := svc.Release(context.Background(), "slot-1"); err != nil {
		t.Fatalf("second release: %v", err)
	}

	holder, _ := svc.Holder(context.Background(), "slot-1")
	if holder != "" {
		t.Errorf("expected no holder after release, got %q", holder)
	}
}

func TestSlotLock_DefaultTTL(t *testing.T) {
	slots := newStubSlotRepo()
	slots.seed("slot-1", "doc-1")
	store := newStubLockStore()
	svc := NewSlotLockService(slots, store, 0, discardLogger)

	if err := svc.Acquire(context.Background(), "slot-1", "user-1"); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if store.lastTTL != DefaultLockTTL {
		t.Errorf("expected default TTL %v, got %v", DefaultLockTTL, store.lastTTL)
	}
}
