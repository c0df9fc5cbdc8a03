package cache

import "github.com/dgraph-io/ristretto"

type ristrettoCache struct {
	noStats
	c    *ristretto.Cache
	size int
}

// NewRistretto creates a Ristretto cache.
func NewRistretto() Cache {
	c := &ristrettoCache{}
	c.reset(defaultCapacity)
	return c
}

func (c *ristrettoCache) reset(capacity int) {
	if c.c != nil {
		c.c.Close()
	}
	c.c, _ = ristretto.NewCache(&ristretto.Config{ //nolint:errcheck // config always valid
		NumCounters:        int64(capacity) * 10,
		MaxCost:            int64(capacity),
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	c.size = 0
}

func (c *ristrettoCache) Init(orders []Record, _ []int64) {
	c.reset(headroom(len(orders)))
	load(c, orders)
}

// Insert retries sets dropped under contention and waits for the write
// buffer, so the record is visible once Insert returns.
func (c *ristrettoCache) Insert(r Record) {
	if _, ok := c.c.Get(r.ID); !ok {
		c.size++
	}
	for !c.c.Set(r.ID, r, 1) {
		c.c.Wait()
	}
	c.c.Wait()
}

func (c *ristrettoCache) Lookup(id int64) (Record, bool) {
	v, ok := c.c.Get(id)
	if !ok {
		return Record{}, false
	}
	return v.(Record), true //nolint:errcheck,revive // type is known from Set
}

func (c *ristrettoCache) Size() int {
	return c.size
}

func (*ristrettoCache) Describe() string {
	return "ristretto"
}

func (c *ristrettoCache) Close() {
	c.c.Wait() // flush pending async writes
	c.c.Close()
}
