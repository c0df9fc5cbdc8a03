package cache

import (
	"github.com/scalalang2/golang-fifo/sieve"
)

type sieveCache struct {
	noStats
	c *sieve.Sieve[int64, Record]
}

// NewSieve creates a SIEVE cache.
func NewSieve() Cache {
	c := &sieveCache{}
	c.reset(defaultCapacity)
	return c
}

func (c *sieveCache) reset(capacity int) {
	c.c = sieve.New[int64, Record](capacity, 0)
}

func (c *sieveCache) Init(orders []Record, _ []int64) {
	c.reset(headroom(len(orders)))
	load(c, orders)
}

func (c *sieveCache) Insert(r Record) {
	c.c.Set(r.ID, r)
}

func (c *sieveCache) Lookup(id int64) (Record, bool) {
	return c.c.Get(id)
}

func (c *sieveCache) Size() int {
	return c.c.Len()
}

func (*sieveCache) Describe() string {
	return "sieve"
}

func (*sieveCache) Close() {}
