package cache

import lru "github.com/hashicorp/golang-lru/v2"

type lruCache struct {
	noStats
	c *lru.Cache[int64, Record]
}

// NewLRU creates a hashicorp LRU cache.
func NewLRU() Cache {
	c := &lruCache{}
	c.reset(defaultCapacity)
	return c
}

func (c *lruCache) reset(capacity int) {
	c.c, _ = lru.New[int64, Record](capacity) //nolint:errcheck // capacity always positive
}

func (c *lruCache) Init(orders []Record, _ []int64) {
	c.reset(headroom(len(orders)))
	load(c, orders)
}

func (c *lruCache) Insert(r Record) {
	c.c.Add(r.ID, r)
}

func (c *lruCache) Lookup(id int64) (Record, bool) {
	return c.c.Get(id)
}

func (c *lruCache) Size() int {
	return c.c.Len()
}

func (*lruCache) Describe() string {
	return "lru"
}

func (c *lruCache) Close() {
	c.c.Purge()
}
