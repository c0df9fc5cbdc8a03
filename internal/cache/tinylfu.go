package cache

import (
	"strconv"

	"github.com/vmihailenco/go-tinylfu"
)

// tinyLFUCache pays for a string conversion per operation, since go-tinylfu
// only accepts string keys.
type tinyLFUCache struct {
	noStats
	c    *tinylfu.T
	size int
}

// NewTinyLFU creates a TinyLFU cache.
func NewTinyLFU() Cache {
	c := &tinyLFUCache{}
	c.reset(defaultCapacity)
	return c
}

func (c *tinyLFUCache) reset(capacity int) {
	c.c = tinylfu.New(capacity, capacity*10)
	c.size = 0
}

func (c *tinyLFUCache) Init(orders []Record, _ []int64) {
	c.reset(headroom(len(orders)))
	load(c, orders)
}

func (c *tinyLFUCache) Insert(r Record) {
	key := strconv.FormatInt(r.ID, 10)
	if _, ok := c.c.Get(key); !ok {
		c.size++
	}
	c.c.Set(&tinylfu.Item{Key: key, Value: r})
}

func (c *tinyLFUCache) Lookup(id int64) (Record, bool) {
	v, ok := c.c.Get(strconv.FormatInt(id, 10))
	if !ok {
		return Record{}, false
	}
	return v.(Record), true //nolint:errcheck,revive // type is known from Set
}

func (c *tinyLFUCache) Size() int {
	return c.size
}

func (*tinyLFUCache) Describe() string {
	return "tinylfu"
}

func (*tinyLFUCache) Close() {}
