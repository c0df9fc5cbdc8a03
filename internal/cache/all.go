package cache

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCache is returned when a name matches no registered implementation.
var ErrUnknownCache = errors.New("unknown cache implementation")

// registry maps implementation names to their factory functions.
var registry = map[string]Factory{
	"doublehash":    NewDoubleHash,
	"map":           NewMap,
	"lru":           NewLRU,
	"2q":            NewTwoQueue,
	"freelru-sync":  NewFreeLRUSynced,
	"freelru-shard": NewFreeLRUSharded,
	"otter":         NewOtter,
	"theine":        NewTheine,
	"ttlcache":      NewTTLCache,
	"ristretto":     NewRistretto,
	"tinylfu":       NewTinyLFU,
	"sieve":         NewSieve,
	"s3-fifo":       NewS3FIFO,
	"clock":         NewClock,
	"s4lru":         NewS4LRU,
	"freecache":     NewFreecache,
}

// defaultOrder defines the display order for implementations.
var defaultOrder = []string{
	"doublehash", "map",
	"otter", "theine", "ttlcache", "ristretto", "tinylfu", "sieve", "s3-fifo",
	"freelru-shard", "freelru-sync", "freecache", "2q", "s4lru", "clock", "lru",
}

// Lookup returns the factory registered under name.
func Lookup(name string) (Factory, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownCache, name, strings.Join(defaultOrder, ", "))
	}
	return f, nil
}

// Resolve maps names to factories, expanding "all" to every implementation.
// Names keep their given order; duplicates are dropped.
func Resolve(names []string) ([]string, []Factory, error) {
	seen := make(map[string]bool)
	var outNames []string
	var factories []Factory
	for _, name := range names {
		expanded := []string{name}
		if name == "all" {
			expanded = defaultOrder
		}
		for _, n := range expanded {
			if seen[n] {
				continue
			}
			f, err := Lookup(n)
			if err != nil {
				return nil, nil, err
			}
			seen[n] = true
			outNames = append(outNames, n)
			factories = append(factories, f)
		}
	}
	if len(factories) == 0 {
		return nil, nil, errors.New("no cache implementation named")
	}
	return outNames, factories, nil
}

// AvailableNames returns all registered names in display order.
func AvailableNames() []string {
	return defaultOrder
}
