package cache

import lru "github.com/hashicorp/golang-lru/v2"

type twoQueueCache struct {
	noStats
	c *lru.TwoQueueCache[int64, Record]
}

// NewTwoQueue creates a hashicorp 2Q cache.
func NewTwoQueue() Cache {
	c := &twoQueueCache{}
	c.reset(defaultCapacity)
	return c
}

func (c *twoQueueCache) reset(capacity int) {
	c.c, _ = lru.New2Q[int64, Record](capacity) //nolint:errcheck // capacity always positive
}

func (c *twoQueueCache) Init(orders []Record, _ []int64) {
	c.reset(headroom(len(orders)))
	load(c, orders)
}

func (c *twoQueueCache) Insert(r Record) {
	c.c.Add(r.ID, r)
}

func (c *twoQueueCache) Lookup(id int64) (Record, bool) {
	return c.c.Get(id)
}

func (c *twoQueueCache) Size() int {
	return c.c.Len()
}

func (*twoQueueCache) Describe() string {
	return "2q"
}

func (c *twoQueueCache) Close() {
	c.c.Purge()
}
