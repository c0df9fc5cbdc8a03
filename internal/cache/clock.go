package cache

import (
	"github.com/Code-Hex/go-generics-cache/policy/clock"
)

type clockCache struct {
	noStats
	c    *clock.Cache[int64, Record]
	size int
}

// NewClock creates a clock-based cache.
func NewClock() Cache {
	c := &clockCache{}
	c.reset(defaultCapacity)
	return c
}

func (c *clockCache) reset(capacity int) {
	c.c = clock.NewCache[int64, Record](clock.WithCapacity(capacity))
	c.size = 0
}

func (c *clockCache) Init(orders []Record, _ []int64) {
	c.reset(headroom(len(orders)))
	load(c, orders)
}

func (c *clockCache) Insert(r Record) {
	if _, ok := c.c.Get(r.ID); !ok {
		c.size++
	}
	c.c.Set(r.ID, r)
}

func (c *clockCache) Lookup(id int64) (Record, bool) {
	return c.c.Get(id)
}

func (c *clockCache) Size() int {
	return c.size
}

func (*clockCache) Describe() string {
	return "clock"
}

func (*clockCache) Close() {}
