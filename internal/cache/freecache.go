package cache

import (
	"encoding/binary"

	"github.com/coocood/freecache"
)

// freecacheEntrySize covers the 24 byte entry header, the 8 byte key and
// the 4 byte check value, rounded up.
const freecacheEntrySize = 64

type freecacheCache struct {
	noStats
	c *freecache.Cache
}

// NewFreecache creates a freecache sized for the default capacity.
func NewFreecache() Cache {
	c := &freecacheCache{}
	c.reset(defaultCapacity)
	return c
}

func (c *freecacheCache) reset(capacity int) {
	// freecache splits its memory into 256 ring segments; the extra factor
	// keeps the fullest one from overwriting live entries.
	cacheBytes := max(4*capacity*freecacheEntrySize,
		// minimum 512KB
		512*1024)
	c.c = freecache.NewCache(cacheBytes)
}

func (c *freecacheCache) Init(orders []Record, _ []int64) {
	c.reset(headroom(len(orders)))
	load(c, orders)
}

func (c *freecacheCache) Insert(r Record) {
	var v [4]byte
	binary.LittleEndian.PutUint32(v[:], uint32(r.Check)) //nolint:gosec // bit pattern only
	c.c.SetInt(r.ID, v[:], 0)                            //nolint:errcheck,gosec // entry is far below the size limit
}

func (c *freecacheCache) Lookup(id int64) (Record, bool) {
	v, err := c.c.GetInt(id)
	if err != nil || len(v) != 4 {
		return Record{}, false
	}
	return Record{ID: id, Check: int32(binary.LittleEndian.Uint32(v))}, true //nolint:gosec // bit pattern only
}

func (c *freecacheCache) Size() int {
	return int(c.c.EntryCount())
}

func (*freecacheCache) Describe() string {
	return "freecache"
}

func (c *freecacheCache) Close() {
	c.c.Clear()
}
