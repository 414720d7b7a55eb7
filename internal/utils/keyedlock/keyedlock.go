// Package keyedlock provides per-key mutual exclusion. The ledger uses it to
// serialize the check-then-append window of refund requests (keyed by the
// original transaction ID) and payout requests (keyed by the owner ID) so two
// concurrent requests cannot both pass their balance check before either
// appends.
package keyedlock

import "sync"

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// KeyedMutex is a set of mutexes addressed by string key. Entries are
// reference-counted and removed once the last holder releases, so the
// internal map stays bounded by the number of in-flight critical sections.
type KeyedMutex struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

// New creates an empty KeyedMutex.
func New() *KeyedMutex {
	return &KeyedMutex{entries: make(map[string]*lockEntry)}
}

// Lock acquires the mutex for key, blocking until it is available.
func (k *KeyedMutex) Lock(key string) {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &lockEntry{}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
}

// Unlock releases the mutex for key. Unlocking a key that is not held
// panics, matching sync.Mutex semantics.
func (k *KeyedMutex) Unlock(key string) {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		k.mu.Unlock()
		panic("keyedlock: unlock of unheld key " + key)
	}
	e.refs--
	if e.refs == 0 {
		delete(k.entries, key)
	}
	k.mu.Unlock()

	e.mu.Unlock()
}
