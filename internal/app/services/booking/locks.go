package booking

import "sync"

// listingLocks serializes check-then-insert per listing identity so two
// concurrent requests cannot both pass the overlap check. Entries are never
// evicted; the map is bounded by the number of listings ever booked in this
// process.
type listingLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newListingLocks() *listingLocks {
	return &listingLocks{locks: make(map[string]*sync.Mutex)}
}

// Acquire locks the listing's mutex and returns the release function.
func (l *listingLocks) Acquire(listingID string) func() {
	l.mu.Lock()
	m, ok := l.locks[listingID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[listingID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
