package sheets

import (
	"sync"
	"time"

	"github.com/Fantastik19951/financebot/middleware"
)

// Cache — сквозной кеш снимков листов. Один снимок на лист, устаревание по TTL,
// инвалидация после каждой записи. Возвращаемые строки менять нельзя.
type Cache struct {
	store Store
	ttl   time.Duration

	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	rows      [][]string
	fetchedAt time.Time
}

func NewCache(store Store, ttl time.Duration) *Cache {
	return &Cache{
		store:   store,
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

// Get возвращает снимок листа, при force — всегда свежий.
func (c *Cache) Get(sheet string, force bool) ([][]string, error) {
	c.mu.Lock()
	e, ok := c.entries[sheet]
	if ok && !force && time.Since(e.fetchedAt) < c.ttl {
		rows := e.rows
		c.mu.Unlock()
		middleware.CacheHitsTotal.Inc()
		return snapshot(rows), nil
	}
	c.mu.Unlock()

	middleware.CacheMissesTotal.Inc()
	rows, err := c.store.Rows(sheet)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.entries[sheet] = cacheEntry{rows: rows, fetchedAt: time.Now()}
	c.mu.Unlock()
	return snapshot(rows), nil
}

// Invalidate сбрасывает снимки перечисленных листов.
func (c *Cache) Invalidate(sheetNames ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, name := range sheetNames {
		delete(c.entries, name)
	}
}

func snapshot(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	copy(out, rows)
	return out
}
