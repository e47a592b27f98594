package web

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/custodia-labs/docproof/internal/core/domain"
	"github.com/custodia-labs/docproof/internal/core/ports/driving"
)

// DefaultCacheSize is the number of lookups kept.
const DefaultCacheSize = 1024

// LookupRecorder counts cache hits and misses. May be nil.
type LookupRecorder interface {
	RecordLookup(cacheHit bool)
}

// LookupCache memoises ledger lookups by fingerprint.
// Failed lookups are not cached.
type LookupCache struct {
	verify   driving.VerificationService
	cache    *expirable.LRU[domain.Fingerprint, *domain.DocumentRecord]
	recorder LookupRecorder
}

// NewLookupCache wraps verify with an LRU of size entries that expire after ttl.
func NewLookupCache(verify driving.VerificationService, size int, ttl time.Duration, recorder LookupRecorder) *LookupCache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &LookupCache{
		verify:   verify,
		cache:    expirable.NewLRU[domain.Fingerprint, *domain.DocumentRecord](size, nil, ttl),
		recorder: recorder,
	}
}

// Lookup returns the cached record or asks the ledger.
func (c *LookupCache) Lookup(ctx context.Context, fp domain.Fingerprint) (*domain.DocumentRecord, error) {
	if rec, ok := c.cache.Get(fp); ok {
		c.record(true)
		return rec, nil
	}
	c.record(false)

	rec, err := c.verify.Lookup(ctx, fp)
	if err != nil {
		return nil, err
	}
	c.cache.Add(fp, rec)
	return rec, nil
}

// Purge drops every cached lookup.
func (c *LookupCache) Purge() {
	c.cache.Purge()
}

func (c *LookupCache) record(hit bool) {
	if c.recorder != nil {
		c.recorder.RecordLookup(hit)
	}
}
