// Package cache provides the history page cache backends: an in-process map
// for single-node deployments and Redis for shared deployments.
package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cobank/ledger/pkg/domain/account"
)

// MemoryPageCache implements cache.PageCache with an in-memory map.
type MemoryPageCache struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
}

type memoryEntry struct {
	page      *account.HistoryPage
	expiresAt time.Time
}

// NewMemoryPageCache creates an in-memory page cache and starts its cleanup
// goroutine.
func NewMemoryPageCache() *MemoryPageCache {
	c := &MemoryPageCache{entries: make(map[string]*memoryEntry)}
	go c.cleanup()
	return c
}

func pageKey(iban string, page, size int) string {
	return fmt.Sprintf("%s:%d:%d", iban, page, size)
}

// Get returns the cached page, or nil on a miss or expired entry.
func (c *MemoryPageCache) Get(_ context.Context, iban string, page, size int) (*account.HistoryPage, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[pageKey(iban, page, size)]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, nil
	}
	return entry.page, nil
}

// Set stores a page with the given TTL.
func (c *MemoryPageCache) Set(_ context.Context, iban string, page, size int, val *account.HistoryPage, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[pageKey(iban, page, size)] = &memoryEntry{
		page:      val,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// InvalidateAccount drops every cached page for the account.
func (c *MemoryPageCache) InvalidateAccount(_ context.Context, iban string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	prefix := iban + ":"
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	return nil
}

// cleanup removes expired entries.
func (c *MemoryPageCache) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		now := time.Now()
		for key, entry := range c.entries {
			if now.After(entry.expiresAt) {
				delete(c.entries, key)
			}
		}
		c.mu.Unlock()
	}
}
