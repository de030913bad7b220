package cache

import (
	"context"
	"sync"
	"time"

	"github.com/amirasaad/ledger/pkg/cache"
	"github.com/amirasaad/ledger/pkg/domain/analytics"
	"github.com/google/uuid"
)

type entry struct {
	value     analytics.NetWorth
	expiresAt time.Time
}

// MemoryNetWorthCache keeps net worth snapshots in process.
type MemoryNetWorthCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]entry
	now     func() time.Time
	stop    chan struct{}
}

// NewMemoryNetWorthCache returns a cache that sweeps expired entries every
// cleanupInterval. Call Close to stop the sweeper.
func NewMemoryNetWorthCache(cleanupInterval time.Duration) *MemoryNetWorthCache {
	c := &MemoryNetWorthCache{
		entries: make(map[uuid.UUID]entry),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go c.cleanup(cleanupInterval)
	}
	return c
}

func (c *MemoryNetWorthCache) Get(_ context.Context, userID uuid.UUID) (*analytics.NetWorth, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[userID]
	if !ok || c.now().After(e.expiresAt) {
		return nil, nil
	}
	nw := e.value
	nw.Accounts = append([]analytics.AccountSummary(nil), e.value.Accounts...)
	return &nw, nil
}

func (c *MemoryNetWorthCache) Set(_ context.Context, userID uuid.UUID, nw *analytics.NetWorth, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := *nw
	v.Accounts = append([]analytics.AccountSummary(nil), nw.Accounts...)
	c.entries[userID] = entry{value: v, expiresAt: c.now().Add(ttl)}
	return nil
}

func (c *MemoryNetWorthCache) Delete(_ context.Context, userID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
	return nil
}

// Close stops the background sweeper.
func (c *MemoryNetWorthCache) Close() error {
	select {
	case <-c.stop:
	default:
		close(c.stop)
	}
	return nil
}

func (c *MemoryNetWorthCache) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			now := c.now()
			for key, e := range c.entries {
				if now.After(e.expiresAt) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}

var _ cache.NetWorthCache = (*MemoryNetWorthCache)(nil)
