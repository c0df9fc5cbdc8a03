package cache

import "github.com/maypok86/otter/v2"

type otterCache struct {
	noStats
	c *otter.Cache[int64, Record]
}

// NewOtter creates an Otter cache.
func NewOtter() Cache {
	c := &otterCache{}
	c.reset(defaultCapacity)
	return c
}

func (c *otterCache) reset(capacity int) {
	c.c = otter.Must(&otter.Options[int64, Record]{MaximumSize: capacity})
}

func (c *otterCache) Init(orders []Record, _ []int64) {
	c.reset(headroom(len(orders)))
	load(c, orders)
}

func (c *otterCache) Insert(r Record) {
	c.c.Set(r.ID, r)
}

func (c *otterCache) Lookup(id int64) (Record, bool) {
	return c.c.GetIfPresent(id)
}

func (c *otterCache) Size() int {
	return c.c.EstimatedSize()
}

func (*otterCache) Describe() string {
	return "otter"
}

func (*otterCache) Close() {}
