package sync

import "sync"

// KeyedLock serializes work per key. Attach, detach and reconciliation for
// the same connection identity hold the identity's lock across the whole
// remote-call-then-commit sequence; identities with different keys proceed
// concurrently.
type KeyedLock struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// NewKeyedLock creates an empty KeyedLock.
func NewKeyedLock() *KeyedLock {
	return &KeyedLock{
		locks: make(map[string]*lockEntry),
	}
}

// Lock acquires the lock for key, blocking until it is available.
func (k *KeyedLock) Lock(key string) {
	k.mu.Lock()
	entry, ok := k.locks[key]
	if !ok {
		entry = &lockEntry{}
		k.locks[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()
}

// Unlock releases the lock for key. The entry is dropped once no goroutine
// holds or waits on it, so the map stays bounded by in-flight identities.
func (k *KeyedLock) Unlock(key string) {
	k.mu.Lock()
	entry, ok := k.locks[key]
	if !ok {
		k.mu.Unlock()
		panic("sync: unlock of unheld key " + key)
	}
	entry.refs--
	if entry.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()

	entry.mu.Unlock()
}
