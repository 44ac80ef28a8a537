package main

import (
	"log"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron"
)

// contentCache is the process-wide cache for rendered CMS responses. Keys are
// namespaced by content type ("articles:..."), so invalidation can target one
// content type without dumping everything. Entries never expire unless a TTL
// is configured; the CMS webhook is the primary invalidation path.
type contentCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration // 0 = no expiry
}

type cacheEntry struct {
	body     []byte
	storedAt time.Time
}

// newContentCache creates an empty cache. ttl of 0 disables expiry.
func newContentCache(ttl time.Duration) *contentCache {
	return &contentCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
	}
}

// get returns the cached body for key, treating expired entries as misses.
func (cc *contentCache) get(key string) ([]byte, bool) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	e, ok := cc.entries[key]
	if !ok {
		return nil, false
	}
	if cc.ttl > 0 && time.Since(e.storedAt) > cc.ttl {
		return nil, false
	}
	return e.body, true
}

// set stores body under key, stamping the store time for TTL checks.
func (cc *contentCache) set(key string, body []byte) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.entries[key] = cacheEntry{body: body, storedAt: time.Now()}
}

// invalidatePrefix removes every entry whose key starts with prefix and
// returns the number removed.
func (cc *contentCache) invalidatePrefix(prefix string) int {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	n := 0
	for key := range cc.entries {
		if strings.HasPrefix(key, prefix) {
			delete(cc.entries, key)
			n++
		}
	}
	return n
}

// sweepExpired removes entries older than the TTL and returns the number
// removed. No-op when no TTL is configured.
func (cc *contentCache) sweepExpired() int {
	if cc.ttl == 0 {
		return 0
	}
	cc.mu.Lock()
	defer cc.mu.Unlock()
	n := 0
	for key, e := range cc.entries {
		if time.Since(e.storedAt) > cc.ttl {
			delete(cc.entries, key)
			n++
		}
	}
	return n
}

// len reports the number of entries, expired or not.
func (cc *contentCache) len() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.entries)
}

// startSweep schedules a periodic sweep of expired entries so a quiet cache
// doesn't hold stale bodies in memory forever. Get already treats expired
// entries as misses, so the sweep is about memory, not correctness.
func (cc *contentCache) startSweep() *cron.Cron {
	if cc.ttl == 0 {
		return nil
	}
	c := cron.New()
	c.AddFunc("@every 5m", func() {
		if n := cc.sweepExpired(); n > 0 {
			log.Printf("[contentCache] swept %d expired entries", n)
		}
	})
	c.Start()
	return c
}
