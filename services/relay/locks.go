package relay

import "sync"

// orderLock is the mutual-exclusion handle for one order id. It embeds
// sync.Mutex so callers lock and unlock it directly.
type orderLock struct {
	sync.Mutex
	key  string
	refs int
}

// lockRegistry hands out one lock per order id so two near-simultaneous
// webhook deliveries for the same order cannot both observe an empty
// store and double-store, or both merge and double-forward.
type lockRegistry struct {
	mu    sync.Mutex
	locks map[string]*orderLock
}

func newLockRegistry() *lockRegistry {
	return &lockRegistry{locks: make(map[string]*orderLock)}
}

// acquire returns the lock for orderID, creating it if absent.
// Concurrent callers for the same order id always receive the same
// handle. The registry mutex is held only for the map lookup, never
// across the caller's critical section.
func (r *lockRegistry) acquire(orderID string) *orderLock {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.locks[orderID]
	if !ok {
		l = &orderLock{key: orderID}
		r.locks[orderID] = l
	}
	l.refs++
	return l
}

// release drops one reference and removes the lock from the registry
// once nothing holds it, so the map does not grow with every order id
// ever seen. A handle already acquired stays valid even after its map
// entry is gone.
func (r *lockRegistry) release(l *orderLock) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l.refs--
	if l.refs <= 0 {
		delete(r.locks, l.key)
	}
}

func (r *lockRegistry) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.locks)
}
