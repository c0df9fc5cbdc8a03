// Package cache provides a unified interface for benchmarking id-keyed record caches.
package cache

import "github.com/tstromberg/hashmark/internal/stats"

// Record is the value held by every cache under test. Check is derived from
// ID and lets the driver validate lookups through a checksum.
type Record struct {
	ID    int64
	Check int32
}

// NewRecord returns the record for id with its derived check value.
func NewRecord(id int64) Record {
	return Record{ID: id, Check: CheckOf(id)}
}

// CheckOf returns the integrity token for id.
func CheckOf(id int64) int32 {
	return int32(uint64(id) * 0x9e3779b97f4a7c15 >> 32) //nolint:gosec // truncation intended
}

// Cache is the capability every implementation under test provides.
// Implementations are used from a single goroutine.
type Cache interface {
	// Init bulk-loads orders. Most implementations ignore access.
	Init(orders []Record, access []int64)
	Insert(r Record)
	Lookup(id int64) (Record, bool)
	Size() int
	Describe() string
	// CollectStats adds layout diagnostics for access to into. Implementations
	// without introspection leave into untouched.
	CollectStats(access []int64, into *stats.Cache)
	Close()
}

// Factory creates a new, empty cache instance.
type Factory func() Cache

// load inserts every order into c.
func load(c Cache, orders []Record) {
	for _, r := range orders {
		c.Insert(r)
	}
}

// defaultCapacity sizes adapters that are used before Init.
const defaultCapacity = 1024

// headroom returns a capacity large enough that a bounded cache holding n
// records never evicts one of them.
func headroom(n int) int {
	return max(2*n+64, defaultCapacity)
}

// noStats is embedded by adapters around caches that expose no layout
// diagnostics.
type noStats struct{}

func (noStats) CollectStats([]int64, *stats.Cache) {}
