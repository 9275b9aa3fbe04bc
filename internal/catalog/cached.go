package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/atinyakov/plantcafe/internal/metrics"
)

// Searcher returns the raw provider body for a search term.
type Searcher interface {
	Search(ctx context.Context, term string) ([]byte, error)
}

// Cache is the subset of the Redis cache used for search results.
type Cache interface {
	Get(ctx context.Context, key string) []byte
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// CachedSearcher serves repeated searches from the cache.
type CachedSearcher struct {
	next  Searcher
	cache Cache
	ttl   time.Duration
}

// NewCachedSearcher wraps next. A zero ttl disables caching.
func NewCachedSearcher(next Searcher, cache Cache, ttl time.Duration) *CachedSearcher {
	return &CachedSearcher{next: next, cache: cache, ttl: ttl}
}

// CacheKey normalizes term into the cache key.
func CacheKey(term string) string {
	return "catalog:search:" + strings.ToLower(strings.TrimSpace(term))
}

// Search returns the cached body for term or asks next and caches its
// answer. Failures are never cached.
func (s *CachedSearcher) Search(ctx context.Context, term string) ([]byte, error) {
	key := CacheKey(term)
	if s.ttl > 0 {
		if raw := s.cache.Get(ctx, key); raw != nil {
			metrics.CatalogLookup("hit")
			return raw, nil
		}
	}

	raw, err := s.next.Search(ctx, term)
	if err != nil {
		metrics.CatalogLookup("error")
		return nil, err
	}
	metrics.CatalogLookup("miss")
	if s.ttl > 0 {
		s.cache.Set(ctx, key, raw, s.ttl)
	}
	return raw, nil
}
