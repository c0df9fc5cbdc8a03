package cache

import (
	"encoding/binary"

	lru "github.com/elastic/go-freelru"
	"github.com/zeebo/xxh3"
)

func hashID(id int64) uint32 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(id)) //nolint:gosec // bit pattern only
	return uint32(xxh3.Hash(b[:]))                  //nolint:gosec // truncation intended
}

type freeLRUSyncedCache struct {
	noStats
	c *lru.SyncedLRU[int64, Record]
}

// NewFreeLRUSynced creates a single-lock freelru cache.
func NewFreeLRUSynced() Cache {
	c := &freeLRUSyncedCache{}
	c.reset(defaultCapacity)
	return c
}

func (c *freeLRUSyncedCache) reset(capacity int) {
	c.c, _ = lru.NewSynced[int64, Record](uint32(capacity), hashID) //nolint:errcheck,gosec // capacity always positive
}

func (c *freeLRUSyncedCache) Init(orders []Record, _ []int64) {
	c.reset(headroom(len(orders)))
	load(c, orders)
}

func (c *freeLRUSyncedCache) Insert(r Record) {
	c.c.Add(r.ID, r)
}

func (c *freeLRUSyncedCache) Lookup(id int64) (Record, bool) {
	return c.c.Get(id)
}

func (c *freeLRUSyncedCache) Size() int {
	return c.c.Len()
}

func (*freeLRUSyncedCache) Describe() string {
	return "freelru-sync"
}

func (c *freeLRUSyncedCache) Close() {
	c.c.Purge()
}

type freeLRUShardedCache struct {
	noStats
	c *lru.ShardedLRU[int64, Record]
}

// NewFreeLRUSharded creates a sharded freelru cache.
func NewFreeLRUSharded() Cache {
	c := &freeLRUShardedCache{}
	c.reset(defaultCapacity)
	return c
}

func (c *freeLRUShardedCache) reset(capacity int) {
	c.c, _ = lru.NewSharded[int64, Record](uint32(capacity), hashID) //nolint:errcheck,gosec // capacity always positive
}

// Init sizes every shard well above its expected share, since a single
// overfull shard evicts even when the cache as a whole has room.
func (c *freeLRUShardedCache) Init(orders []Record, _ []int64) {
	c.reset(4 * headroom(len(orders)))
	load(c, orders)
}

func (c *freeLRUShardedCache) Insert(r Record) {
	c.c.Add(r.ID, r)
}

func (c *freeLRUShardedCache) Lookup(id int64) (Record, bool) {
	return c.c.Get(id)
}

func (c *freeLRUShardedCache) Size() int {
	return c.c.Len()
}

func (*freeLRUShardedCache) Describe() string {
	return "freelru-shard"
}

func (c *freeLRUShardedCache) Close() {
	c.c.Purge()
}
