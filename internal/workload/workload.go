// Package workload generates deterministic, seed-driven cache workloads.
package workload

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/zeebo/xxh3"

	"github.com/tstromberg/hashmark/internal/cache"
)

// ErrInconsistent reports an access sequence referencing an id that is not
// part of the loaded orders.
var ErrInconsistent = errors.New("inconsistent workload")

// Defaults for a benchmark workload.
const (
	DefaultOrders   = 100_000
	DefaultAccesses = 1_000_000
	DefaultTheta    = 0.99
)

// Config describes a workload. Equal configs generate identical workloads.
type Config struct {
	Seed     int64
	Orders   int     // distinct records to load
	Accesses int     // length of the access sequence
	Theta    float64 // Zipf skew of accesses in [0, 1); 0 is uniform
}

// DefaultConfig returns the default workload shape for seed.
func DefaultConfig(seed int64) Config {
	return Config{Seed: seed, Orders: DefaultOrders, Accesses: DefaultAccesses, Theta: DefaultTheta}
}

// Validate checks the config for values Generate cannot honor.
func (c Config) Validate() error {
	switch {
	case c.Orders <= 0:
		return fmt.Errorf("orders must be positive, got %d", c.Orders)
	case c.Accesses <= 0:
		return fmt.Errorf("access length must be positive, got %d", c.Accesses)
	case c.Theta < 0 || c.Theta >= 1:
		return fmt.Errorf("theta must be in [0, 1), got %g", c.Theta)
	}
	return nil
}

// Workload is a set of distinct records to load plus a sequence of ids to
// look up, each of which belongs to a loaded record.
type Workload struct {
	Config
	Orders      []cache.Record
	Access      []int64
	fingerprint uint64
}

// Generate builds the workload for cfg.
func Generate(cfg Config) (*Workload, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed := uint64(cfg.Seed) //nolint:gosec // bit pattern only
	rng := rand.New(rand.NewPCG(seed, seed^0x5851f42d4c957f2d))

	seen := roaring64.New()
	orders := make([]cache.Record, 0, cfg.Orders)
	for len(orders) < cfg.Orders {
		id := rng.Uint64()
		if seen.CheckedAdd(id) {
			orders = append(orders, cache.NewRecord(int64(id))) //nolint:gosec // any bit pattern is a valid id
		}
	}

	// Popularity is independent of load order: rank r maps to a random record.
	perm := rng.Perm(cfg.Orders)
	access := make([]int64, cfg.Accesses)
	for i, rank := range zipfRanks(rng, cfg.Accesses, cfg.Orders, cfg.Theta) {
		access[i] = orders[perm[rank]].ID
	}

	w := &Workload{Config: cfg, Orders: orders, Access: access}
	w.fingerprint = fingerprint(orders, access)
	return w, nil
}

// fingerprint hashes the exact content of a workload, so two runs can be
// checked for operating on the same data.
func fingerprint(orders []cache.Record, access []int64) uint64 {
	h := xxh3.New()
	var b [12]byte
	for _, r := range orders {
		binary.LittleEndian.PutUint64(b[:8], uint64(r.ID))    //nolint:gosec // bit pattern only
		binary.LittleEndian.PutUint32(b[8:], uint32(r.Check)) //nolint:gosec // bit pattern only
		h.Write(b[:])                                         //nolint:errcheck // hash writes never fail
	}
	for _, id := range access {
		binary.LittleEndian.PutUint64(b[:8], uint64(id)) //nolint:gosec // bit pattern only
		h.Write(b[:8])                                   //nolint:errcheck // hash writes never fail
	}
	return h.Sum64()
}

// Fingerprint returns the content hash of the workload.
func (w *Workload) Fingerprint() uint64 {
	return w.fingerprint
}

// Validate checks that orders are distinct and that every access id is
// among them.
func (w *Workload) Validate() error {
	ids := roaring64.New()
	for i, r := range w.Orders {
		if !ids.CheckedAdd(uint64(r.ID)) { //nolint:gosec // bit pattern only
			return fmt.Errorf("%w: orders[%d] repeats id %d", ErrInconsistent, i, r.ID)
		}
	}
	for i, id := range w.Access {
		if !ids.Contains(uint64(id)) { //nolint:gosec // bit pattern only
			return fmt.Errorf("%w: access[%d] id %d is not loaded", ErrInconsistent, i, id)
		}
	}
	return nil
}

// String describes the workload for logs and summaries.
func (w *Workload) String() string {
	return fmt.Sprintf("seed=%d orders=%d access=%d theta=%.2f fp=%016x",
		w.Seed, len(w.Orders), len(w.Access), w.Theta, w.fingerprint)
}

// New wraps explicit orders and access ids in a Workload, e.g. for a
// hand-built scenario. It does not validate them.
func New(seed int64, orders []cache.Record, access []int64) *Workload {
	return &Workload{
		Config:      Config{Seed: seed, Orders: len(orders), Accesses: len(access)},
		Orders:      orders,
		Access:      access,
		fingerprint: fingerprint(orders, access),
	}
}
