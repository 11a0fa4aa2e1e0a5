package relay

import (
	"context"
	"fmt"
	"sync"
	"time"

	"airmax/models"
	"airmax/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// dedupTTL bounds how long a forwarded single trip is remembered in
// Redis. Duplicate webhook deliveries arrive within minutes, so a few
// days of retention is more than enough.
const dedupTTL = 72 * time.Hour

// ProcessedLedger records which single trip bookings were already
// forwarded downstream, so duplicate webhook deliveries are absorbed.
// Marking happens only after a successful forward; a failed forward
// stays retryable under the same key.
type ProcessedLedger interface {
	IsMarked(ctx context.Context, key string) bool
	Mark(ctx context.Context, key string)
}

// SingleTripKey derives a stable dedup key from the booking's own
// identifier and scheduled start, falling back to the item identifier.
// Returns "" when neither is resolvable, in which case every delivery
// must be treated as unique.
func SingleTripKey(b *models.Booking) string {
	startAt := ""
	itemPK := 0
	if b.Availability != nil {
		startAt = b.Availability.StartAt
		if b.Availability.Item != nil {
			itemPK = b.Availability.Item.PK
		}
	}
	if b.PK != 0 {
		return fmt.Sprintf("single_%d_%s", b.PK, startAt)
	}
	if itemPK != 0 && startAt != "" {
		return fmt.Sprintf("single_item_%d_%s", itemPK, startAt)
	}
	return ""
}

type memoryLedger struct {
	mu     sync.RWMutex
	marked map[string]struct{}
}

// NewMemoryLedger returns a process-lifetime in-memory ledger.
func NewMemoryLedger() ProcessedLedger {
	return &memoryLedger{marked: make(map[string]struct{})}
}

func (l *memoryLedger) IsMarked(ctx context.Context, key string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.marked[key]
	return ok
}

func (l *memoryLedger) Mark(ctx context.Context, key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.marked[key] = struct{}{}
}

type redisLedger struct {
	client *redis.Client
}

// NewRedisLedger returns a ledger backed by Redis, surviving process
// restarts and shared across replicas.
func NewRedisLedger(client *redis.Client) ProcessedLedger {
	return &redisLedger{client: client}
}

func (l *redisLedger) IsMarked(ctx context.Context, key string) bool {
	n, err := l.client.Exists(ctx, ledgerKey(key)).Result()
	if err != nil {
		// When Redis is unreachable, fail open: treat the delivery as
		// new rather than dropping a booking.
		utils.GetLogger().Warn("Dedup lookup failed, treating booking as new",
			zap.String("key", key), zap.Error(err))
		return false
	}
	return n > 0
}

func (l *redisLedger) Mark(ctx context.Context, key string) {
	if err := l.client.Set(ctx, ledgerKey(key), "1", dedupTTL).Err(); err != nil {
		utils.GetLogger().Warn("Failed to mark booking as processed",
			zap.String("key", key), zap.Error(err))
	}
}

func ledgerKey(key string) string {
	return "dedup:" + key
}
