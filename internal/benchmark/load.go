package benchmark

import (
	"testing"

	"github.com/tstromberg/hashmark/internal/cache"
	"github.com/tstromberg/hashmark/internal/workload"
)

// LoadResult holds the bulk-load cost of a cache, growth included.
type LoadResult struct {
	Name           string  `json:"name"`
	NsPerRecord    float64 `json:"nsPerRecord"`
	AllocsPerLoad  int64   `json:"allocsPerLoad"`
	BytesPerRecord float64 `json:"bytesPerRecord"`
	Records        int     `json:"records"`
}

// RunLoad benchmarks loading every order of w into a fresh instance of each
// cache.
func RunLoad(names []string, factories []cache.Factory, w *workload.Workload) []LoadResult {
	results := make([]LoadResult, 0, len(factories))
	n := len(w.Orders)

	for i, factory := range factories {
		res := testing.Benchmark(func(b *testing.B) {
			benchLoad(b, factory, w)
		})
		results = append(results, LoadResult{
			Name:           names[i],
			NsPerRecord:    float64(res.NsPerOp()) / float64(n),
			AllocsPerLoad:  res.AllocsPerOp(),
			BytesPerRecord: float64(res.AllocedBytesPerOp()) / float64(n),
			Records:        n,
		})
	}

	return results
}

func benchLoad(b *testing.B, factory cache.Factory, w *workload.Workload) {
	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		c := factory()
		c.Init(w.Orders, w.Access)
		b.StopTimer()
		c.Close()
		b.StartTimer()
	}
}
