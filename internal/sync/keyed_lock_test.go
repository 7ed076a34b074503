package sync

import (
	gosync "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyedLockSerializesSameKey(t *testing.T) {
	t.Parallel()

	locks := NewKeyedLock()

	const workers = 16
	var counter int
	var wg gosync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			locks.Lock("broker-1\nalice")
			defer locks.Unlock("broker-1\nalice")
			// Unsynchronized increment: the race detector flags any overlap.
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, counter)
}

func TestKeyedLockIndependentKeys(t *testing.T) {
	t.Parallel()

	locks := NewKeyedLock()
	locks.Lock("key-a")
	defer locks.Unlock("key-a")

	// A different key must not block behind key-a.
	done := make(chan struct{})
	go func() {
		locks.Lock("key-b")
		locks.Unlock("key-b")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("lock on independent key blocked")
	}
}

func TestKeyedLockReleasesEntries(t *testing.T) {
	t.Parallel()

	locks := NewKeyedLock()
	for i := 0; i < 100; i++ {
		locks.Lock("key")
		locks.Unlock("key")
	}

	locks.mu.Lock()
	defer locks.mu.Unlock()
	assert.Empty(t, locks.locks)
}

func TestKeyedLockUnlockUnheldPanics(t *testing.T) {
	t.Parallel()

	locks := NewKeyedLock()
	assert.Panics(t, func() {
		locks.Unlock("never-locked")
	})
}
