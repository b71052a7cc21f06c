package foods

import (
	"context"
	"encoding/json"
	"time"

	"github.com/2beens/fitledger/internal/telemetry/metrics"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultCacheSize = 4 * 1024 * 1024
	DefaultCacheTTL  = time.Minute
)

var _ Provider = (*CachedProvider)(nil)

// CachedProvider fronts another Provider with an in-process freecache.
// Only successful lookups are cached.
type CachedProvider struct {
	provider       Provider
	cache          *freecache.Cache
	ttlSeconds     int
	metricsManager *metrics.Manager
}

func NewCachedProvider(provider Provider, cacheSize int, ttl time.Duration, metricsManager *metrics.Manager) *CachedProvider {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	ttlSeconds := int(ttl / time.Second)
	if ttlSeconds < 1 {
		ttlSeconds = 1
	}
	return &CachedProvider{
		provider:       provider,
		cache:          freecache.NewCache(cacheSize),
		ttlSeconds:     ttlSeconds,
		metricsManager: metricsManager,
	}
}

func (p *CachedProvider) Food(ctx context.Context, id string) (FoodItem, error) {
	if cached, err := p.cache.Get([]byte(id)); err == nil {
		var item FoodItem
		if err := json.Unmarshal(cached, &item); err == nil {
			p.observe("hit")
			return item, nil
		}
		log.Warnf("foods cache: corrupt entry for [%s], refetching", id)
	}
	p.observe("miss")

	return p.fetch(ctx, id)
}

// Refresh reads the item from the backing provider, bypassing the cache,
// and stores the fresh copy. A failed lookup evicts any cached entry.
func (p *CachedProvider) Refresh(ctx context.Context, id string) (FoodItem, error) {
	p.observe("refresh")
	p.Invalidate(id)
	return p.fetch(ctx, id)
}

func (p *CachedProvider) fetch(ctx context.Context, id string) (FoodItem, error) {
	item, err := p.provider.Food(ctx, id)
	if err != nil {
		return FoodItem{}, err
	}

	itemJson, err := json.Marshal(item)
	if err != nil {
		log.Errorf("foods cache: marshal [%s]: %s", id, err)
		return item, nil
	}
	if err := p.cache.Set([]byte(id), itemJson, p.ttlSeconds); err != nil {
		log.Warnf("foods cache: set [%s]: %s", id, err)
	}

	return item, nil
}

// Invalidate drops the cached entry for id, e.g. after the reference data changed.
func (p *CachedProvider) Invalidate(id string) {
	p.cache.Del([]byte(id))
}

func (p *CachedProvider) observe(result string) {
	if p.metricsManager != nil {
		p.metricsManager.CounterFoodCacheLookups.WithLabelValues(result).Inc()
	}
}
