package database

import (
	"context"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// columnEntry is one cached column list.
type columnEntry struct {
	Columns []string
	Built   time.Time
	TTL     time.Duration
}

// IsExpired returns true if this entry has expired based on its TTL.
func (e *columnEntry) IsExpired() bool {
	if e.TTL == 0 {
		return true // No caching
	}
	return time.Since(e.Built) > e.TTL
}

// ColumnCache holds the column lists of tables for a limited time.
// Concurrent misses on the same table share one lookup.
type ColumnCache struct {
	mu      sync.RWMutex
	entries map[string]*columnEntry
	sf      singleflight.Group
	ttl     time.Duration
}

// NewColumnCache creates a cache whose entries live for ttl. A zero ttl
// disables caching but still de-duplicates concurrent lookups.
func NewColumnCache(ttl time.Duration) *ColumnCache {
	return &ColumnCache{
		entries: make(map[string]*columnEntry),
		ttl:     ttl,
	}
}

// GetOrLoad returns the cached columns of table, calling load when the entry is
// missing or expired. Empty results are not cached.
func (c *ColumnCache) GetOrLoad(ctx context.Context, table string, load func(context.Context) ([]string, error)) ([]string, error) {
	// Fast path
	c.mu.RLock()
	entry, exists := c.entries[table]
	c.mu.RUnlock()

	if exists && !entry.IsExpired() {
		return slices.Clone(entry.Columns), nil
	}

	result, err, _ := c.sf.Do(table, func() (interface{}, error) {
		// Double-check after acquiring singleflight lock
		c.mu.RLock()
		entry, exists := c.entries[table]
		c.mu.RUnlock()

		if exists && !entry.IsExpired() {
			return entry.Columns, nil
		}

		cols, err := load(ctx)
		if err != nil {
			return nil, err
		}

		if len(cols) > 0 {
			c.mu.Lock()
			c.entries[table] = &columnEntry{Columns: cols, Built: time.Now(), TTL: c.ttl}
			c.mu.Unlock()
		}

		return cols, nil
	})

	if err != nil {
		return nil, err
	}

	return slices.Clone(result.([]string)), nil
}

// Invalidate removes the entry of table.
func (c *ColumnCache) Invalidate(table string) {
	c.mu.Lock()
	delete(c.entries, table)
	c.mu.Unlock()
}
