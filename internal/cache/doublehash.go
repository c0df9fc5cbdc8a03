package cache

import (
	"fmt"

	"github.com/tstromberg/hashmark/internal/stats"
)

// initialLength is the slot count of an empty table. It must be prime.
const initialLength = 13

// slot is one cell of the backing array. full distinguishes an empty slot
// from a record whose fields happen to be zero.
type slot struct {
	id    int64
	check int32
	full  bool
}

// DoubleHash is an open-addressing table resolving collisions with double
// hashing. The table length is always prime, so every step value visits
// all slots before repeating, and growth keeps at most 2/3 of them occupied.
type DoubleHash struct {
	slots []slot
	size  int
	grows int
}

// NewDoubleHash creates an empty double-hashing cache.
func NewDoubleHash() Cache {
	return newDoubleHash(initialLength)
}

func newDoubleHash(length int) *DoubleHash {
	return &DoubleHash{slots: make([]slot, length)}
}

// hash folds the 64-bit id into a non-negative 31-bit value.
func hash(id int64) int {
	return int((uint32(id) ^ uint32(uint64(id)>>32)) & 0x7fffffff) //nolint:gosec // folding intended
}

func index0(h, length int) int {
	return h % length
}

// step is in [1, length-2] and therefore never a fixed point.
func step(h, length int) int {
	return 1 + h%(length-2)
}

func next(index, step, length int) int {
	index += step
	if index >= length {
		index -= length
	}
	return index
}

// Init bulk-loads orders.
func (c *DoubleHash) Init(orders []Record, _ []int64) {
	load(c, orders)
}

// Insert adds r, or replaces the record already stored under r.ID.
func (c *DoubleHash) Insert(r Record) {
	if c.size >= 2*len(c.slots)/3 {
		c.rehash()
	}
	if !put(c.slots, r) {
		c.size++
	}
}

// put stores r in slots and reports whether it replaced an existing record.
func put(slots []slot, r Record) bool {
	length := len(slots)
	h := hash(r.ID)
	i := index0(h, length)
	s := &slots[i]
	if !s.full || s.id == r.ID {
		replaced := s.full
		*s = slot{id: r.ID, check: r.Check, full: true}
		return replaced
	}
	st := step(h, length)
	start := i
	for {
		i = next(i, st, length)
		if i == start {
			panic(fmt.Sprintf("doublehash: no free slot for id %d in table of %d", r.ID, length))
		}
		s = &slots[i]
		if !s.full || s.id == r.ID {
			break
		}
	}
	replaced := s.full
	*s = slot{id: r.ID, check: r.Check, full: true}
	return replaced
}

// rehash moves every record into a table at least twice as long.
func (c *DoubleHash) rehash() {
	b := make([]slot, nextPrime(2*len(c.slots)))
	for i := len(c.slots) - 1; i >= 0; i-- {
		if s := c.slots[i]; s.full {
			put(b, Record{ID: s.id, Check: s.check})
		}
	}
	c.slots = b
	c.grows++
}

// Lookup returns the record stored under id.
func (c *DoubleHash) Lookup(id int64) (Record, bool) {
	length := len(c.slots)
	h := hash(id)
	i := index0(h, length)
	s := c.slots[i]
	if !s.full {
		return Record{}, false
	}
	if s.id == id {
		return Record{ID: s.id, Check: s.check}, true
	}
	st := step(h, length)
	start := i
	for {
		i = next(i, st, length)
		if i == start {
			panic(fmt.Sprintf("doublehash: probe for id %d cycled through a full table of %d", id, length))
		}
		s = c.slots[i]
		if !s.full {
			return Record{}, false
		}
		if s.id == id {
			return Record{ID: s.id, Check: s.check}, true
		}
	}
}

// Size returns the number of distinct ids stored.
func (c *DoubleHash) Size() int {
	return c.size
}

// Len returns the length of the backing array.
func (c *DoubleHash) Len() int {
	return len(c.slots)
}

// Grows returns how many times the table was rehashed.
func (c *DoubleHash) Grows() int {
	return c.grows
}

// Describe identifies the implementation in reports.
func (*DoubleHash) Describe() string {
	return "doublehash"
}

// FillFactor returns size divided by table length.
func (c *DoubleHash) FillFactor() float64 {
	return float64(c.size) / float64(len(c.slots))
}

// TotalProbes counts the slots visited to reach every stored record once.
func (c *DoubleHash) TotalProbes() int64 {
	var cnt stats.ProbeCounter
	for _, s := range c.slots {
		if s.full {
			c.countProbes(s.id, &cnt)
		}
	}
	return cnt.Count()
}

// AccessProbes adds the slots visited by a lookup of every id in access to
// cnt and returns the new total.
func (c *DoubleHash) AccessProbes(access []int64, cnt *stats.ProbeCounter) int64 {
	for _, id := range access {
		c.countProbes(id, cnt)
	}
	return cnt.Count()
}

// countProbes walks the same slots Lookup would.
func (c *DoubleHash) countProbes(id int64, cnt *stats.ProbeCounter) {
	length := len(c.slots)
	h := hash(id)
	i := index0(h, length)
	cnt.Access(i)
	s := c.slots[i]
	if !s.full || s.id == id {
		return
	}
	st := step(h, length)
	start := i
	for {
		i = next(i, st, length)
		if i == start {
			panic(fmt.Sprintf("doublehash: probe count for id %d cycled through a full table of %d", id, length))
		}
		cnt.Access(i)
		s = c.slots[i]
		if !s.full || s.id == id {
			return
		}
	}
}

// CollectStats samples fill factor and average access probes.
func (c *DoubleHash) CollectStats(access []int64, into *stats.Cache) {
	stats.Collect(c, access, into)
}

// Close releases the backing array.
func (c *DoubleHash) Close() {
	c.slots = nil
}
