// Package service orchestrates simulation runs, persistence and caching.
package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"

	"github.com/baedea/brainfin/internal/metrics"
	"github.com/baedea/brainfin/internal/models"
)

// RecordCache provides in-memory caching for fetched simulation records
type RecordCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	maxSize   int
	mu        sync.RWMutex
	hitCount  uint64
	missCount uint64
}

// NewRecordCache creates a new record cache
func NewRecordCache(ttl time.Duration, maxSize int) *RecordCache {
	return &RecordCache{
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves a cached record
func (rc *RecordCache) Get(id uuid.UUID) *models.SimulationRecord {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if cached, found := rc.cache.Get(id.String()); found {
		if record, ok := cached.(*models.SimulationRecord); ok {
			rc.hitCount++
			metrics.RecordCacheHit()
			return record
		}
	}

	rc.missCount++
	metrics.RecordCacheMiss()
	return nil
}

// Set stores a record in cache
func (rc *RecordCache) Set(record *models.SimulationRecord) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	// Check size limit
	if rc.cache.ItemCount() >= rc.maxSize {
		rc.cache.DeleteExpired()
	}

	rc.cache.Set(record.ID.String(), record, rc.ttl)
	metrics.UpdateCacheSize(float64(rc.cache.ItemCount()))
}

// Invalidate removes a record from cache
func (rc *RecordCache) Invalidate(id uuid.UUID) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.cache.Delete(id.String())
	metrics.UpdateCacheSize(float64(rc.cache.ItemCount()))
}

// Clear flushes the entire cache
func (rc *RecordCache) Clear() {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.cache.Flush()
	rc.hitCount = 0
	rc.missCount = 0
	metrics.UpdateCacheSize(0)
}

// Stats returns cache statistics
func (rc *RecordCache) Stats() (hits, misses uint64, ratio float64) {
	rc.mu.RLock()
	defer rc.mu.RUnlock()

	hits = rc.hitCount
	misses = rc.missCount
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of items in cache
func (rc *RecordCache) ItemCount() int {
	return rc.cache.ItemCount()
}
