package upcoming

import (
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// DefaultCacheTTL bounds how long a cached list may be served.
const DefaultCacheTTL = time.Minute

// Cache holds read views of the upcoming list keyed by collection.
type Cache interface {
	Get(key string) ([]*Content, bool)
	Set(key string, items []*Content)
	Invalidate(key string)
}

// TTLCache is an in-process Cache whose entries expire after a fixed TTL.
type TTLCache struct {
	store *ttlcache.Cache[string, []*Content]
}

func NewTTLCache(ttl time.Duration) *TTLCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &TTLCache{
		store: ttlcache.New(
			ttlcache.WithTTL[string, []*Content](ttl),
			ttlcache.WithDisableTouchOnHit[string, []*Content](),
		),
	}
}

func (c *TTLCache) Get(key string) ([]*Content, bool) {
	item := c.store.Get(key)
	if item == nil {
		return nil, false
	}
	items := item.Value()
	out := make([]*Content, len(items))
	copy(out, items)
	return out, true
}

func (c *TTLCache) Set(key string, items []*Content) {
	stored := make([]*Content, len(items))
	copy(stored, items)
	c.store.Set(key, stored, ttlcache.DefaultTTL)
}

func (c *TTLCache) Invalidate(key string) {
	c.store.Delete(key)
}
