package utils

import "sync"

// KeyedMutex serializes operations scoped to a single database row, e.g.
// assignment per room type or payment recording per invoice. Mutexes are
// created on first use and never released; the key space (room types,
// invoices) is small enough that this never matters.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[uint]*sync.Mutex)}
}

// LedgerLocks serializes invoice generation, resync and payment recording
// per booking. Shared across the invoice and payment services: a resync
// must never interleave with a payment against the same invoice, or the
// resync writes back a stale paid amount.
var LedgerLocks = NewKeyedMutex()

// Lock acquires the mutex for key and returns the matching unlock func.
func (k *KeyedMutex) Lock(key uint) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
