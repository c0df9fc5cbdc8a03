package stats

import "fmt"

// Cache aggregates per-load diagnostics of a cache engine: how full its
// backing storage is and how many slots an average lookup visits.
type Cache struct {
	Fill   Running
	Probes Running
}

// Add records one sample, taken right after a cache instance was loaded.
func (c *Cache) Add(fillFactor, avgProbes float64) {
	c.Fill.Add(fillFactor)
	c.Probes.Add(avgProbes)
}

// N returns the number of samples.
func (c *Cache) N() int {
	return c.Fill.N()
}

func (c *Cache) String() string {
	if c.N() == 0 {
		return "(no cache stats)"
	}
	return fmt.Sprintf("fill %.3f +- %.3f, probes %.3f +- %.3f (%d samples)",
		c.Fill.Mean(), c.Fill.Dev(), c.Probes.Mean(), c.Probes.Dev(), c.N())
}
