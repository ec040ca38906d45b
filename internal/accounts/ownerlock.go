package accounts

import (
	"sync"

	"github.com/google/uuid"
)

// ownerLocks serializes read-check-act-write cycles per owner document.
// Credit counters, page counts and project sequence ids all live inside one
// embedded JSON blob that is rewritten whole on save; without this lock two
// concurrent requests against the same owner could both pass their
// precondition checks and overwrite each other's increments.
type ownerLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newOwnerLocks() *ownerLocks {
	return &ownerLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (o *ownerLocks) lock(ownerID uuid.UUID) func() {
	o.mu.Lock()
	l, ok := o.locks[ownerID]
	if !ok {
		l = &sync.Mutex{}
		o.locks[ownerID] = l
	}
	o.mu.Unlock()

	l.Lock()
	return l.Unlock
}
