package cache

import (
	"strconv"

	"github.com/dgryski/go-s4lru"
)

// s4lruCache inserts into the lowest of four segments, so that segment alone
// must be able to hold every record.
type s4lruCache struct {
	noStats
	c    *s4lru.Cache
	size int
}

// NewS4LRU creates a segmented LRU cache.
func NewS4LRU() Cache {
	c := &s4lruCache{}
	c.reset(defaultCapacity)
	return c
}

func (c *s4lruCache) reset(capacity int) {
	c.c = s4lru.New(capacity)
	c.size = 0
}

func (c *s4lruCache) Init(orders []Record, _ []int64) {
	c.reset(4 * headroom(len(orders)))
	load(c, orders)
}

func (c *s4lruCache) Insert(r Record) {
	key := strconv.FormatInt(r.ID, 10)
	if _, ok := c.c.Get(key); !ok {
		c.size++
	}
	c.c.Set(key, r)
}

func (c *s4lruCache) Lookup(id int64) (Record, bool) {
	v, ok := c.c.Get(strconv.FormatInt(id, 10))
	if !ok {
		return Record{}, false
	}
	return v.(Record), true //nolint:errcheck,revive // type is known from Set
}

func (c *s4lruCache) Size() int {
	return c.size
}

func (*s4lruCache) Describe() string {
	return "s4lru"
}

func (*s4lruCache) Close() {}
