package usecase

import (
	"fmt"
	"sync"

	"market-ads/internal/core/domain"
)

// slotLocks serializes read-check-then-write sequences on a single
// (owner, adType, slot) triple. Two near-simultaneous bookings by the same
// owner for the same slot must not both pass the availability check; the
// database's partial unique index is the backstop, this lock keeps the
// common path free of constraint-violation noise.
type slotLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newSlotLocks() *slotLocks {
	return &slotLocks{locks: make(map[string]*sync.Mutex)}
}

// lock acquires the mutex for the triple and returns its unlock func.
func (l *slotLocks) lock(ownerID string, adType domain.AdType, slot int) func() {
	key := fmt.Sprintf("%s|%s|%d", ownerID, adType, slot)

	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
