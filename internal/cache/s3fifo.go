package cache

import (
	"github.com/scalalang2/golang-fifo/s3fifo"
)

type s3fifoCache struct {
	noStats
	c *s3fifo.S3FIFO[int64, Record]
}

// NewS3FIFO creates an S3-FIFO cache.
func NewS3FIFO() Cache {
	c := &s3fifoCache{}
	c.reset(defaultCapacity)
	return c
}

func (c *s3fifoCache) reset(capacity int) {
	c.c = s3fifo.New[int64, Record](capacity, 0)
}

func (c *s3fifoCache) Init(orders []Record, _ []int64) {
	c.reset(headroom(len(orders)))
	load(c, orders)
}

func (c *s3fifoCache) Insert(r Record) {
	c.c.Set(r.ID, r)
}

func (c *s3fifoCache) Lookup(id int64) (Record, bool) {
	return c.c.Get(id)
}

func (c *s3fifoCache) Size() int {
	return c.c.Len()
}

func (*s3fifoCache) Describe() string {
	return "s3-fifo"
}

func (*s3fifoCache) Close() {}
