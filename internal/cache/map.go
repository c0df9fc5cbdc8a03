package cache

// mapCache is the built-in map baseline every other variant is compared to.
type mapCache struct {
	noStats
	m map[int64]int32
}

// NewMap creates a cache backed by a Go map.
func NewMap() Cache {
	return &mapCache{m: make(map[int64]int32)}
}

func (c *mapCache) Init(orders []Record, _ []int64) {
	c.m = make(map[int64]int32, len(orders))
	load(c, orders)
}

func (c *mapCache) Insert(r Record) {
	c.m[r.ID] = r.Check
}

func (c *mapCache) Lookup(id int64) (Record, bool) {
	check, ok := c.m[id]
	if !ok {
		return Record{}, false
	}
	return Record{ID: id, Check: check}, true
}

func (c *mapCache) Size() int {
	return len(c.m)
}

func (*mapCache) Describe() string {
	return "map"
}

func (c *mapCache) Close() {
	c.m = nil
}
