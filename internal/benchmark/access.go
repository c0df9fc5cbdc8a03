// Package benchmark implements the benchmark protocol and its suites.
package benchmark

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/tstromberg/hashmark/internal/cache"
	"github.com/tstromberg/hashmark/internal/stats"
	"github.com/tstromberg/hashmark/internal/workload"
)

// Defaults of the access benchmark protocol.
const (
	DefaultPasses        = 50
	DefaultStablePass    = 3
	DefaultPassesPerSeed = 3
	DefaultSeed0         = 1
)

// Config controls the access benchmark.
type Config struct {
	Passes        int             // total timed passes
	StablePass    int             // first pass counted in the timing statistics
	PassesPerSeed int             // passes between re-seeds
	Seed0         int64           // seed of the first workload
	Workload      workload.Config // shape of every workload; Seed is overridden per re-seed
}

// DefaultConfig returns the standard access benchmark configuration.
func DefaultConfig() Config {
	return Config{
		Passes:        DefaultPasses,
		StablePass:    DefaultStablePass,
		PassesPerSeed: DefaultPassesPerSeed,
		Seed0:         DefaultSeed0,
		Workload:      workload.DefaultConfig(DefaultSeed0),
	}
}

// Validate checks c for values the protocol cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Passes <= 0:
		return fmt.Errorf("passes must be positive, got %d", c.Passes)
	case c.StablePass < 1:
		return fmt.Errorf("stable pass must be at least 1, got %d", c.StablePass)
	case c.StablePass > c.Passes:
		return fmt.Errorf("stable pass %d is after the last pass %d, so nothing would be timed", c.StablePass, c.Passes)
	case c.PassesPerSeed < 1:
		return fmt.Errorf("passes per seed must be at least 1, got %d", c.PassesPerSeed)
	}
	return c.Workload.Validate()
}

// PassResult holds the measurement of one pass.
type PassResult struct {
	Pass        int     `json:"pass"`
	Seed        int64   `json:"seed"`
	NsPerAccess float64 `json:"nsPerAccess"`
	Checksum    int32   `json:"checksum"`
	Stable      bool    `json:"stable"`
}

// AccessResult holds the outcome of the access benchmark for one cache.
type AccessResult struct {
	Name               string       `json:"name"`
	Description        string       `json:"description"`
	Stable             int          `json:"stable"`
	MeanNs             float64      `json:"meanNs"`
	DevNs              float64      `json:"devNs"`
	Workload           string       `json:"workload"`
	Checksum           int32        `json:"checksum"`
	ChecksumMismatches int          `json:"checksumMismatches"`
	CacheStats         string       `json:"cacheStats"`
	FillFactor         float64      `json:"fillFactor"`
	AvgProbes          float64      `json:"avgProbes"`
	StatSamples        int          `json:"statSamples"`
	ReseedPasses       []int        `json:"reseedPasses"`
	Passes             []PassResult `json:"passes"`
}

// Summary renders the result in the fixed one-line format used for the
// persistent log.
func (r AccessResult) Summary() string {
	return fmt.Sprintf("%-20s %2d : %7.3f +- %7.3f with %s (checksum %d) %s",
		r.Description, r.Stable, r.MeanNs, r.DevNs, r.Workload, r.Checksum, r.CacheStats)
}

// Runner executes the access benchmark, printing per-pass progress to its
// console writer.
type Runner struct {
	cfg     Config
	console io.Writer
	log     *slog.Logger
	// source produces the workload for a seed.
	source func(seed int64) (*workload.Workload, error)
}

// NewRunner creates a Runner. A nil logger discards diagnostics.
func NewRunner(cfg Config, console io.Writer, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r := &Runner{cfg: cfg, console: console, log: logger}
	r.source = func(seed int64) (*workload.Workload, error) {
		wc := cfg.Workload
		wc.Seed = seed
		return workload.Generate(wc)
	}
	return r
}

// probeTotaler is implemented by engines that can price their whole layout.
type probeTotaler interface {
	TotalProbes() int64
	FillFactor() float64
}

// Run measures the cache built by factory. A new workload and a freshly
// loaded cache are introduced at pass 1 and every PassesPerSeed passes
// after; each pass before StablePass postpones the next re-seed by one.
func (r *Runner) Run(name string, factory cache.Factory) (AccessResult, error) {
	if err := r.cfg.Validate(); err != nil {
		return AccessResult{}, fmt.Errorf("access config: %w", err)
	}

	var (
		seq          *workload.Workload
		impl         cache.Cache
		timeStats    stats.Running
		cacheStats   stats.Cache
		seedChecksum int32
		err          error
	)
	defer func() {
		if impl != nil {
			impl.Close()
		}
	}()

	res := AccessResult{Name: name}
	nextSeed := r.cfg.Seed0
	nextInitPass := 1
	for pass := 1; pass <= r.cfg.Passes; pass++ {
		newSeed := false
		if pass >= nextInitPass {
			newSeed = true
			if impl != nil {
				impl.Close()
				impl = nil
			}
			seq, impl, err = r.load(name, factory, nextSeed)
			if err != nil {
				return res, err
			}
			res.ReseedPasses = append(res.ReseedPasses, pass)
			nextSeed++
			nextInitPass = pass + r.cfg.PassesPerSeed
		}

		fmt.Fprintf(r.console, "PASS #%2d: ", pass)
		ns, sum := timePass(impl, seq.Access)
		fmt.Fprintf(r.console, "%.3f ns per item", ns)
		stable := pass >= r.cfg.StablePass
		if stable {
			timeStats.Add(ns)
			fmt.Fprintf(r.console, ", avg %s", &timeStats)
		} else {
			nextInitPass++
		}
		fmt.Fprintf(r.console, " (checksum %d)\n", sum)

		if newSeed {
			seedChecksum = sum
		} else if sum != seedChecksum {
			res.ChecksumMismatches++
			r.log.Warn("checksum changed between passes on the same workload",
				"cache", name, "pass", pass, "seed", seq.Seed, "want", seedChecksum, "got", sum)
		}
		res.Checksum = sum
		res.Passes = append(res.Passes, PassResult{
			Pass: pass, Seed: seq.Seed, NsPerAccess: ns, Checksum: sum, Stable: stable,
		})

		if newSeed {
			impl.CollectStats(seq.Access, &cacheStats)
		}
	}

	res.Description = impl.Describe()
	res.Stable = timeStats.N()
	res.MeanNs = timeStats.Mean()
	res.DevNs = timeStats.Dev()
	res.Workload = seq.String()
	res.CacheStats = cacheStats.String()
	res.FillFactor = cacheStats.Fill.Mean()
	res.AvgProbes = cacheStats.Probes.Mean()
	res.StatSamples = cacheStats.N()
	fmt.Fprintln(r.console, res.Summary())
	return res, nil
}

// load creates the workload for seed and a cache loaded with it.
func (r *Runner) load(name string, factory cache.Factory, seed int64) (*workload.Workload, cache.Cache, error) {
	fmt.Fprintf(r.console, "Creating access sequence with seed %d ...\n", seed)
	seq, err := r.source(seed)
	if err != nil {
		return nil, nil, fmt.Errorf("workload for seed %d: %w", seed, err)
	}
	if err := seq.Validate(); err != nil {
		return nil, nil, fmt.Errorf("workload for seed %d: %w", seed, err)
	}
	fmt.Fprintf(r.console, "Created access sequence with %s\n", seq)

	fmt.Fprintf(r.console, "Initializing %s ...\n", name)
	start := time.Now()
	impl := factory()
	impl.Init(seq.Orders, seq.Access)
	fmt.Fprintf(r.console, "Initialized with %d objects %s\n", impl.Size(), impl.Describe())

	if r.log.Enabled(context.Background(), slog.LevelDebug) {
		attrs := []any{"cache", name, "seed", seed, "size", impl.Size(), "elapsed", time.Since(start)}
		if pt, ok := impl.(probeTotaler); ok {
			attrs = append(attrs, "fill", pt.FillFactor(), "totalProbes", pt.TotalProbes())
		}
		r.log.Debug("cache loaded", attrs...)
	}
	return seq, impl, nil
}

// timePass performs one timed traversal of access and returns the time per
// accessed id in nanoseconds along with the checksum.
func timePass(c cache.Cache, access []int64) (float64, int32) {
	start := time.Now()
	sum := accessOnce(c, access)
	elapsed := time.Since(start)
	return float64(elapsed.Nanoseconds()) / float64(len(access)), sum
}

// accessOnce looks up every id and sums the check values with wraparound.
// A miss means the workload and the loaded cache disagree, which makes
// every later number meaningless, so it panics.
func accessOnce(c cache.Cache, access []int64) int32 {
	var sum int32
	for _, id := range access {
		rec, ok := c.Lookup(id)
		if !ok {
			panic(fmt.Sprintf("%s: access id %d is not in the cache", c.Describe(), id))
		}
		sum += rec.Check
	}
	return sum
}

// ErrChecksumDisagreement reports caches that produced different checksums
// for the same workload.
var ErrChecksumDisagreement = errors.New("checksums disagree")

type seedChecksum struct {
	name string
	sum  int32
}

// CrossCheck compares, seed by seed, the checksums of results run with the
// same configuration. It does not guess which cache is wrong; the error lists
// every disagreeing seed with each distinct checksum and the caches that
// produced it.
func CrossCheck(results []AccessResult) error {
	if len(results) < 2 {
		return nil
	}

	var seeds []int64
	bySeed := make(map[int64][]seedChecksum)
	for _, r := range results {
		seen := make(map[int64]bool)
		for _, p := range r.Passes {
			// later passes on a seed are checked by the runner itself
			if seen[p.Seed] {
				continue
			}
			seen[p.Seed] = true
			if _, ok := bySeed[p.Seed]; !ok {
				seeds = append(seeds, p.Seed)
			}
			bySeed[p.Seed] = append(bySeed[p.Seed], seedChecksum{r.Name, p.Checksum})
		}
	}

	var problems []string
	for _, seed := range seeds {
		groups := make(map[int32][]string)
		var order []int32
		for _, sc := range bySeed[seed] {
			if _, ok := groups[sc.sum]; !ok {
				order = append(order, sc.sum)
			}
			groups[sc.sum] = append(groups[sc.sum], sc.name)
		}
		if len(groups) == 1 {
			continue
		}
		parts := make([]string, len(order))
		for i, sum := range order {
			parts[i] = fmt.Sprintf("%d from %v", sum, groups[sum])
		}
		problems = append(problems, fmt.Sprintf("seed %d: %s", seed, strings.Join(parts, ", ")))
	}
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrChecksumDisagreement, strings.Join(problems, "; "))
}
