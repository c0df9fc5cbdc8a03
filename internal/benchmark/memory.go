package benchmark

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/tstromberg/hashmark/internal/workload"
)

// MemoryResult holds memory usage results for a cache.
type MemoryResult struct {
	Name           string `json:"name"`
	Items          int    `json:"items"`
	Bytes          uint64 `json:"bytes"`
	BytesPerRecord int64  `json:"bytesPerRecord"`
	BaselineBytes  uint64 `json:"baselineBytes"`
}

type memOutput struct {
	Name  string `json:"name"`
	Error string `json:"error,omitempty"`
	Items int    `json:"items"`
	Bytes uint64 `json:"bytes"`
}

// BaselineName is the pseudo cache the memory probe measures with only the
// workload resident.
const BaselineName = "baseline"

// RunMemory measures heap usage of every named cache holding w, each in an
// isolated process running ./cmd/mem.
func RunMemory(names []string, w *workload.Workload) ([]MemoryResult, error) {
	tmp, err := os.MkdirTemp("", "hashmark-mem")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmp) //nolint:errcheck // best-effort cleanup

	// Build the memory benchmark binary
	binPath := filepath.Join(tmp, "mem-benchmark")
	buildCmd := exec.Command("go", "build", "-o", binPath, "./cmd/mem") //nolint:noctx // trusted command
	if out, err := buildCmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("build mem benchmark: %w\n%s", err, out)
	}

	// Every child loads the same snapshot, so the baseline subtracts exactly
	// the workload's own footprint.
	wlPath := filepath.Join(tmp, "workload.zst")
	if err := workload.SaveFile(wlPath, w); err != nil {
		return nil, fmt.Errorf("save workload: %w", err)
	}

	baseline, err := runMemBenchmark(binPath, BaselineName, wlPath)
	if err != nil {
		return nil, fmt.Errorf("baseline benchmark: %w", err)
	}

	results := make([]MemoryResult, len(names))
	ok := make([]bool, len(names))
	var g errgroup.Group
	g.SetLimit(max(runtime.NumCPU()/2, 1))
	for i, name := range names {
		g.Go(func() error {
			res, err := runMemBenchmark(binPath, name, wlPath)
			if err != nil {
				fmt.Printf("  %s: error: %v\n", name, err)
				return nil
			}
			results[i], ok[i] = res, true
			return nil
		})
	}
	g.Wait() //nolint:errcheck,gosec // children report their own failures

	var measured []MemoryResult
	for i, r := range results {
		if ok[i] {
			measured = append(measured, r)
		}
	}
	return subtractBaseline(measured, baseline.Bytes), nil
}

// subtractBaseline fills in the per-record overhead of every result above
// the baseline heap and sorts them by total bytes, smallest first.
func subtractBaseline(results []MemoryResult, baselineBytes uint64) []MemoryResult {
	out := make([]MemoryResult, 0, len(results))
	for _, r := range results {
		r.BaselineBytes = baselineBytes
		if r.Items > 0 {
			diff := int64(r.Bytes) - int64(baselineBytes) //nolint:gosec // heap sizes fit in int64
			r.BytesPerRecord = diff / int64(r.Items)
		}
		out = append(out, r)
	}

	// Sort by bytes ascending
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Bytes < out[j].Bytes
	})

	return out
}

func runMemBenchmark(binPath, cacheName, workloadPath string) (MemoryResult, error) {
	cmd := exec.Command(binPath, //nolint:gosec,noctx // trusted binary path
		"-cache", cacheName,
		"-workload", workloadPath,
	)

	out, err := cmd.CombinedOutput()
	if err != nil {
		return MemoryResult{}, fmt.Errorf("run %s: %w\n%s", cacheName, err, out)
	}

	var res memOutput
	if err := json.Unmarshal(out, &res); err != nil {
		return MemoryResult{}, fmt.Errorf("parse output for %s: %w\n%s", cacheName, err, out)
	}

	if res.Error != "" {
		return MemoryResult{}, fmt.Errorf("%s: %s", cacheName, res.Error)
	}

	return MemoryResult{
		Name:  res.Name,
		Items: res.Items,
		Bytes: res.Bytes,
	}, nil
}
