package output

import (
	"fmt"
	"os"
	"sort"

	"github.com/dustin/go-humanize"

	"github.com/tstromberg/hashmark/internal/benchmark"
)

// WriteMarkdown writes benchmark results to a Markdown file.
func WriteMarkdown(filename string, results Results, commandLine string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	w := func(format string, args ...any) {
		fmt.Fprintf(f, format, args...)
	}

	w("# hashmark Results\n\n")
	w("```\n")
	w("Command: %s\n", commandLine)
	w("Environment: %s/%s, %d CPUs, %s\n", results.MachineInfo.OS, results.MachineInfo.Arch, results.MachineInfo.NumCPU, results.MachineInfo.GoVersion)
	w("```\n\n")

	if len(results.Access) > 0 {
		w("## Access Benchmark\n\n")
		writeAccessMarkdown(w, results.Access)
		if results.ChecksumError != "" {
			w("**Checksum mismatch:** %s\n\n", results.ChecksumError)
		}
	}

	if len(results.Load) > 0 {
		w("## Load Benchmark\n\n")
		writeLoadMarkdown(w, results.Load)
	}

	if len(results.Memory) > 0 {
		w("## Memory Benchmark\n\n")
		writeMemoryMarkdown(w, results.Memory)
	}

	// Rankings
	if len(results.Rankings) > 0 {
		w("## Overall Rankings\n\n")
		w("| Rank | Cache         | Score | Gold | Silver | Bronze |\n")
		w("|------|---------------|-------|------|--------|--------|\n")
		for _, r := range results.Rankings {
			w("| %4d | %-13s | %5.0f | %4d | %6d | %6d |\n", r.Rank, r.Name, r.Score, r.Gold, r.Silver, r.Bronze)
		}
		w("\n")
	}

	return nil
}

func writeAccessMarkdown(w func(string, ...any), data []benchmark.AccessResult) {
	w("| Cache         |  ns/item |    +- | Passes |    Checksum | Fill  | Probes |\n")
	w("|---------------|----------|-------|--------|-------------|-------|--------|\n")

	sorted := make([]benchmark.AccessResult, len(data))
	copy(sorted, data)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MeanNs < sorted[j].MeanNs
	})

	for _, r := range sorted {
		fill, probes := "-", "-"
		if r.StatSamples > 0 {
			fill = fmt.Sprintf("%.3f", r.FillFactor)
			probes = fmt.Sprintf("%.3f", r.AvgProbes)
		}
		w("| %-13s | %8.3f | %5.3f | %6d | %11d | %-5s | %6s |\n",
			r.Name, r.MeanNs, r.DevNs, r.Stable, r.Checksum, fill, probes)
	}

	// Winner line
	if len(sorted) >= 2 {
		best, second := sorted[0], sorted[1]
		pct := ((second.MeanNs - best.MeanNs) / best.MeanNs) * 100
		w("\n  winner: %s (+%.1f%% vs %s)\n", best.Name, pct, second.Name)
	}
	w("\n")
}

func writeLoadMarkdown(w func(string, ...any), data []benchmark.LoadResult) {
	w("| Cache         | ns/record | allocs/load | bytes/record |\n")
	w("|---------------|-----------|-------------|--------------|\n")

	sorted := make([]benchmark.LoadResult, len(data))
	copy(sorted, data)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].NsPerRecord < sorted[j].NsPerRecord
	})

	for _, r := range sorted {
		w("| %-13s | %9.1f | %11d | %12.1f |\n", r.Name, r.NsPerRecord, r.AllocsPerLoad, r.BytesPerRecord)
	}

	// Winner line
	if len(sorted) >= 2 {
		best, second := sorted[0], sorted[1]
		pct := ((second.NsPerRecord - best.NsPerRecord) / best.NsPerRecord) * 100
		w("\n  winner: %s (+%.1f%% vs %s)\n", best.Name, pct, second.Name)
	}
	w("\n")
}

func writeMemoryMarkdown(w func(string, ...any), data []benchmark.MemoryResult) {
	w("| Cache         | Items Stored |   Memory | Overhead (bytes/item) |\n")
	w("|---------------|--------------|----------|-----------------------|\n")

	for _, r := range data {
		w("| %-13s | %12d | %8s | %21d |\n", r.Name, r.Items, humanize.IBytes(r.Bytes), r.BytesPerRecord)
	}

	// Winner line (lowest memory usage)
	if len(data) >= 2 && data[0].Bytes > 0 {
		best, second := data[0], data[1]
		pct := (float64(second.Bytes-best.Bytes) / float64(best.Bytes)) * 100
		w("\n  winner: %s (+%.1f%% vs %s)\n", best.Name, pct, second.Name)
	}
	w("\n")
}
