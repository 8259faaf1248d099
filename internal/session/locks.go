package session

import "sync"

// keyedMutex serializes read-modify-write cycles per session id so concurrent
// updates cannot interleave stale totals. Entries are tiny and bounded by the
// live session count; nothing evicts them because sessions outlive requests.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: map[string]*sync.Mutex{}}
}

func (k *keyedMutex) Lock(key string) {
	k.mutexFor(key).Lock()
}

func (k *keyedMutex) Unlock(key string) {
	k.mutexFor(key).Unlock()
}

func (k *keyedMutex) mutexFor(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	lock, ok := k.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		k.locks[key] = lock
	}
	return lock
}
