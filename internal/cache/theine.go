package cache

import "github.com/Yiling-J/theine-go"

type theineCache struct {
	noStats
	c *theine.Cache[int64, Record]
}

// NewTheine creates a Theine cache.
func NewTheine() Cache {
	c := &theineCache{}
	c.reset(defaultCapacity)
	return c
}

func (c *theineCache) reset(capacity int) {
	if c.c != nil {
		c.c.Close()
	}
	c.c, _ = theine.NewBuilder[int64, Record](int64(capacity)).Build() //nolint:errcheck // capacity always positive
}

func (c *theineCache) Init(orders []Record, _ []int64) {
	c.reset(headroom(len(orders)))
	load(c, orders)
}

func (c *theineCache) Insert(r Record) {
	c.c.Set(r.ID, r, 1)
}

func (c *theineCache) Lookup(id int64) (Record, bool) {
	return c.c.Get(id)
}

func (c *theineCache) Size() int {
	return c.c.Len()
}

func (*theineCache) Describe() string {
	return "theine"
}

func (c *theineCache) Close() {
	c.c.Close()
}
