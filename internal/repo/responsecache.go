package repo

import (
	"context"
	"time"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/stores/cache"

	cachekeys "gridscope-api/internal/cache"
)

// ResponseCache caches rendered API responses via the go-zero cache layer.
// Logic handlers use it for responses that aggregate whole record classes,
// where brief staleness is cheaper than rebuilding per request.
type ResponseCache struct {
	cache cache.Cache
	ttl   cachekeys.TTLSet
}

func NewResponseCache(c cache.Cache, ttl cachekeys.TTLSet) *ResponseCache {
	return &ResponseCache{cache: c, ttl: ttl}
}

// TTL exposes the configured cache tiers.
func (r *ResponseCache) TTL() cachekeys.TTLSet {
	if r == nil {
		return cachekeys.TTLSet{}
	}
	return r.ttl
}

// Get loads a cached response into v, reporting whether it was present. A
// nil receiver or missing backend reads as a miss.
func (r *ResponseCache) Get(ctx context.Context, key string, v any) bool {
	if r == nil || r.cache == nil {
		return false
	}
	if err := r.cache.GetCtx(ctx, key, v); err != nil {
		if !r.cache.IsNotFound(err) {
			logx.WithContext(ctx).Errorf("repo: get cache %s: %v", key, err)
		}
		return false
	}
	return true
}

// Set stores v at key for expire. Failures are logged, not returned.
func (r *ResponseCache) Set(ctx context.Context, key string, expire time.Duration, v any) {
	if r == nil || r.cache == nil || expire <= 0 {
		return
	}
	if err := r.cache.SetWithExpireCtx(ctx, key, v, expire); err != nil {
		logx.WithContext(ctx).Errorf("repo: set cache %s: %v", key, err)
	}
}
