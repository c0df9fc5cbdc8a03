package cache

import (
	"time"

	"github.com/jellydator/ttlcache/v3"
)

type ttlcacheCache struct {
	noStats
	c *ttlcache.Cache[int64, Record]
}

// NewTTLCache creates a TTL-based cache. Entries never expire during a run.
func NewTTLCache() Cache {
	c := &ttlcacheCache{}
	c.reset(defaultCapacity)
	return c
}

func (c *ttlcacheCache) reset(capacity int) {
	if c.c != nil {
		c.c.Stop()
	}
	c.c = ttlcache.New[int64, Record](
		ttlcache.WithCapacity[int64, Record](uint64(capacity)), //nolint:gosec // capacity always positive
		ttlcache.WithTTL[int64, Record](time.Hour),
	)
	go c.c.Start()
}

func (c *ttlcacheCache) Init(orders []Record, _ []int64) {
	c.reset(headroom(len(orders)))
	load(c, orders)
}

func (c *ttlcacheCache) Insert(r Record) {
	c.c.Set(r.ID, r, ttlcache.DefaultTTL)
}

func (c *ttlcacheCache) Lookup(id int64) (Record, bool) {
	item := c.c.Get(id)
	if item == nil {
		return Record{}, false
	}
	return item.Value(), true
}

func (c *ttlcacheCache) Size() int {
	return c.c.Len()
}

func (*ttlcacheCache) Describe() string {
	return "ttlcache"
}

func (c *ttlcacheCache) Close() {
	c.c.Stop()
}
