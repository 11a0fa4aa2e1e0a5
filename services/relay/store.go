package relay

import (
	"sync"
	"time"

	"airmax/models"
	"airmax/utils"

	"go.uber.org/zap"
)

// PendingBooking is one half of a round trip waiting for its counterpart.
type PendingBooking struct {
	Booking     *models.Booking
	Flights     []models.FlightRef
	FirstSeenAt time.Time
}

// PendingStore holds half-arrived round trip bookings keyed by order id.
// Callers must serialize access per order id via the engine's order
// locks; the store's own locking only protects the map itself.
type PendingStore interface {
	Put(orderID string, booking *models.Booking, flights []models.FlightRef)
	Get(orderID string) (*PendingBooking, bool)
	Remove(orderID string)
	Sweep(maxAge time.Duration) int
}

type memoryStore struct {
	mu      sync.RWMutex
	pending map[string]*PendingBooking
	now     func() time.Time
}

// NewMemoryStore returns an in-memory PendingStore. State is volatile;
// a restart drops any half-arrived round trips.
func NewMemoryStore() PendingStore {
	return &memoryStore{
		pending: make(map[string]*PendingBooking),
		now:     time.Now,
	}
}

func (s *memoryStore) Put(orderID string, booking *models.Booking, flights []models.FlightRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[orderID] = &PendingBooking{
		Booking:     booking,
		Flights:     flights,
		FirstSeenAt: s.now(),
	}
}

func (s *memoryStore) Get(orderID string) (*PendingBooking, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.pending[orderID]
	return p, ok
}

func (s *memoryStore) Remove(orderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, orderID)
}

// Sweep drops every pending booking older than maxAge and returns the
// number removed. It runs synchronously; the store only ever holds the
// handful of round trips currently in flight, so a full scan is cheap.
func (s *memoryStore) Sweep(maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-maxAge)
	removed := 0
	for orderID, p := range s.pending {
		if p.FirstSeenAt.Before(cutoff) {
			delete(s.pending, orderID)
			removed++
			utils.GetLogger().Info("Removed stale round trip booking",
				zap.String("orderId", orderID),
				zap.Time("firstSeenAt", p.FirstSeenAt))
		}
	}
	return removed
}
