// hashmark measures the lookup speed of in-memory id-to-record caches under a
// reproducible, seed-driven workload.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/tstromberg/hashmark/internal/benchmark"
	"github.com/tstromberg/hashmark/internal/cache"
	"github.com/tstromberg/hashmark/internal/output"
	"github.com/tstromberg/hashmark/internal/workload"
)

// validSuites lists all available benchmark suites.
var validSuites = []string{"access", "load", "memory"}

// options holds the parsed command line.
type options struct {
	cfg         benchmark.Config
	names       []string
	factories   []cache.Factory
	suiteFilter map[string]bool
	logPath     string
	outDir      string
	metricsPath string
	verbose     bool
	previous    *output.Results // earlier JSON report to compare access timings with
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	printHeader(opts)

	results := output.Results{Config: opts.cfg, MachineInfo: output.CurrentMachine()}

	if opts.suiteFilter["access"] {
		results.Access, err = runAccessBenchmarks(opts, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		if err := benchmark.CrossCheck(results.Access); err != nil {
			results.ChecksumError = err.Error()
			logger.Error("implementations disagree on the workload checksum", "error", err)
		}
		if opts.previous != nil {
			printComparison(output.CompareAccess(*opts.previous, results))
		}
	}

	var wl *workload.Workload
	if opts.suiteFilter["load"] || opts.suiteFilter["memory"] {
		wc := opts.cfg.Workload
		wc.Seed = opts.cfg.Seed0
		wl, err = workload.Generate(wc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}

	if opts.suiteFilter["load"] {
		results.Load = runLoadBenchmarks(opts, wl)
	}

	if opts.suiteFilter["memory"] {
		results.Memory = runMemoryBenchmarks(opts, wl)
	}

	results.Rankings, results.MedalTable = output.ComputeRankings(results)
	printOverallRanking(results.Rankings)

	if err := writeReports(opts, results); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// parseFlags turns args into options. Every configuration problem is
// reported here, before anything is measured or logged.
func parseFlags(args []string) (options, error) {
	fs := flag.NewFlagSet("hashmark", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs) }

	cfg := benchmark.DefaultConfig()
	fs.IntVar(&cfg.Passes, "passes", benchmark.DefaultPasses, "Total timed passes per implementation")
	fs.IntVar(&cfg.StablePass, "stable", benchmark.DefaultStablePass, "First pass counted in the timing statistics")
	fs.IntVar(&cfg.PassesPerSeed, "per-seed", benchmark.DefaultPassesPerSeed, "Passes between workload re-seeds")
	fs.Int64Var(&cfg.Seed0, "seed", benchmark.DefaultSeed0, "Seed of the first workload")
	fs.IntVar(&cfg.Workload.Orders, "orders", workload.DefaultOrders, "Distinct records loaded per workload")
	fs.IntVar(&cfg.Workload.Accesses, "access", workload.DefaultAccesses, "Lookups per pass")
	fs.Float64Var(&cfg.Workload.Theta, "theta", workload.DefaultTheta, "Zipf skew of the access sequence in [0, 1); 0 is uniform")
	suites := fs.String("suites", "access", "Comma-separated list of benchmark suites: access,load,memory, or all")
	logPath := fs.String("log", "hashmark.log", "File the access summary lines are appended to")
	outDir := fs.String("outdir", "", "Output directory for hashmark_results.{md,json}")
	metricsPath := fs.String("metrics", "", "Write Prometheus text-format metrics to this file")
	comparePath := fs.String("compare", "", "Compare access timings with a JSON report from an earlier run")
	verbose := fs.Bool("v", false, "Log debug diagnostics")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if err := cfg.Validate(); err != nil {
		return options{}, err
	}

	opts := options{
		cfg:         cfg,
		suiteFilter: make(map[string]bool),
		logPath:     *logPath,
		outDir:      *outDir,
		metricsPath: *metricsPath,
		verbose:     *verbose,
	}

	valid := make(map[string]bool)
	for _, s := range validSuites {
		valid[s] = true
	}
	for s := range strings.SplitSeq(*suites, ",") {
		s = strings.TrimSpace(strings.ToLower(s))
		switch {
		case s == "":
		case s == "all":
			for _, v := range validSuites {
				opts.suiteFilter[v] = true
			}
		case valid[s]:
			opts.suiteFilter[s] = true
		default:
			return options{}, fmt.Errorf("unknown suite %q (available: %s)", s, strings.Join(validSuites, ", "))
		}
	}
	if len(opts.suiteFilter) == 0 {
		return options{}, errors.New("no benchmark suite selected")
	}

	var names []string
	for _, arg := range fs.Args() {
		for name := range strings.SplitSeq(arg, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
	}
	if len(names) == 0 {
		names = []string{"doublehash"}
	}
	var err error
	opts.names, opts.factories, err = cache.Resolve(names)
	if err != nil {
		return options{}, err
	}

	if opts.suiteFilter["access"] && opts.logPath != "" {
		if err := checkWritable(opts.logPath); err != nil {
			return options{}, err
		}
	}
	if opts.outDir != "" {
		if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
			return options{}, fmt.Errorf("create output directory: %w", err)
		}
	}
	if opts.metricsPath != "" {
		if err := checkWritable(opts.metricsPath); err != nil {
			return options{}, err
		}
	}
	if *comparePath != "" {
		prev, err := output.ReadJSON(*comparePath)
		if err != nil {
			return options{}, fmt.Errorf("compare: %w", err)
		}
		opts.previous = &prev
	}
	return opts, nil
}

// checkWritable fails if path cannot be opened for appending.
func checkWritable(path string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("output %s: %w", path, err)
	}
	return f.Close()
}

func printUsage(fs *flag.FlagSet) {
	out := fs.Output()
	fmt.Fprintln(out, "hashmark - Compare id-to-record cache implementations")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Usage:")
	fmt.Fprintln(out, "  hashmark [flags] <impl>[,<impl>...|all]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  hashmark doublehash                  Access benchmark of the double hashing table")
	fmt.Fprintln(out, "  hashmark doublehash,map,otter        Compare three implementations")
	fmt.Fprintln(out, "  hashmark -suites all -outdir out all Every suite, every implementation")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Options:")
	fs.PrintDefaults()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Available suites:")
	fmt.Fprintln(out, "  access   Timed lookup passes with re-seeding and checksum verification")
	fmt.Fprintln(out, "  load     Bulk-load cost per record, growth included")
	fmt.Fprintln(out, "  memory   Heap bytes per record (isolated processes)")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Available caches:")
	for _, name := range cache.AvailableNames() {
		fmt.Fprintf(out, "  - %s\n", name)
	}
}

const lineWidth = 80

func printHeader(opts options) {
	fmt.Println("hashmark")
	fmt.Println()

	var suitesRun []string
	for _, s := range validSuites {
		if opts.suiteFilter[s] {
			suitesRun = append(suitesRun, s)
		}
	}

	fmt.Printf("  caches:   %s\n", strings.Join(opts.names, ", "))
	fmt.Printf("  suites:   %s\n", strings.Join(suitesRun, ", "))
	fmt.Printf("  passes:   %d (stable from #%d, re-seed every %d)\n",
		opts.cfg.Passes, opts.cfg.StablePass, opts.cfg.PassesPerSeed)
	fmt.Printf("  workload: %s orders, %s lookups, theta %.2f\n",
		humanize.Comma(int64(opts.cfg.Workload.Orders)), humanize.Comma(int64(opts.cfg.Workload.Accesses)), opts.cfg.Workload.Theta)
	fmt.Println()
}

func printSuite(name, description string) {
	header := fmt.Sprintf("%s: %s ", name, description)
	padding := max(lineWidth-len(header), 4)
	fmt.Printf("%s%s\n\n", header, strings.Repeat("─", padding))
}

func printTest(name, description string) {
	fmt.Printf("  [%s] %s\n\n", name, description)
}

func runAccessBenchmarks(opts options, logger *slog.Logger) ([]benchmark.AccessResult, error) {
	printSuite("access", "ns per lookup")

	runner := benchmark.NewRunner(opts.cfg, os.Stdout, logger)
	results := make([]benchmark.AccessResult, 0, len(opts.names))
	for i, name := range opts.names {
		printTest(name, fmt.Sprintf("%d passes, seed %d", opts.cfg.Passes, opts.cfg.Seed0))
		res, err := runner.Run(name, opts.factories[i])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if res.ChecksumMismatches > 0 {
			fmt.Printf("  WARNING: %d passes changed checksum on the same workload\n", res.ChecksumMismatches)
		}
		fmt.Println()
		results = append(results, res)

		if opts.logPath != "" {
			if err := output.AppendLog(opts.logPath, res.Summary()); err != nil {
				return nil, err
			}
		}
	}

	printAccessTable(results)
	return results, nil
}

// printAccessTable prints a formatted access results table with winner.
func printAccessTable(results []benchmark.AccessResult) {
	sorted := make([]benchmark.AccessResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MeanNs < sorted[j].MeanNs
	})

	fmt.Println("  | Cache         |  ns/item |    +- |    Checksum | Cache stats")
	fmt.Println("  |---------------|----------|-------|-------------|------------")
	for _, r := range sorted {
		fmt.Printf("  | %-13s | %8.3f | %5.3f | %11d | %s\n", r.Name, r.MeanNs, r.DevNs, r.Checksum, r.CacheStats)
	}

	entries := make([]output.WinnerEntry, len(sorted))
	for i, r := range sorted {
		entries[i] = output.WinnerEntry{Name: r.Name, Score: r.MeanNs}
	}
	printWinner(entries, "ns/item", "slower")
}

// printComparison prints access timings next to those of an earlier run.
func printComparison(deltas []output.AccessDelta) {
	if len(deltas) == 0 {
		fmt.Println("  no cache in common with the earlier run")
		fmt.Println()
		return
	}

	fmt.Println("  | Cache         | before ns | now ns   |  change |")
	fmt.Println("  |---------------|-----------|----------|---------|")
	for _, d := range deltas {
		note := ""
		if d.ChecksumChanged {
			note = " checksum changed on the same workload"
		}
		fmt.Printf("  | %-13s | %9.3f | %8.3f | %+6.1f%% |%s\n", d.Name, d.PrevNs, d.CurNs, d.ChangePct, note)
	}
	fmt.Println()
}

// printWinner prints the winner line for entries sorted best first, where a
// lower score is better.
func printWinner(entries []output.WinnerEntry, unit, worse string) {
	winners, runnerUp := output.FormatWinners(entries)
	if len(entries) >= 2 && len(winners) > 0 {
		best := entries[0]
		if runnerUp == nil {
			fmt.Printf("\n  tie: %s (%.3f %s)\n", strings.Join(winners, ", "), best.Score, unit)
		} else if best.Score > 0 {
			pct := (runnerUp.Score - best.Score) / best.Score * 100
			fmt.Printf("\n  winner: %s (%.3f %s, %s is %.1f%% %s)\n",
				strings.Join(winners, ", "), best.Score, unit, runnerUp.Name, pct, worse)
		}
	}
	fmt.Println()
}

func runLoadBenchmarks(opts options, wl *workload.Workload) []benchmark.LoadResult {
	printSuite("load", "bulk insert (ns/record)")
	printTest("load", fmt.Sprintf("%s records, %s", humanize.Comma(int64(len(wl.Orders))), wl))

	results := benchmark.RunLoad(opts.names, opts.factories, wl)

	sorted := make([]benchmark.LoadResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].NsPerRecord < sorted[j].NsPerRecord
	})

	fmt.Println("  | Cache         | ns/record | allocs/load | bytes/record |")
	fmt.Println("  |---------------|-----------|-------------|--------------|")
	for _, r := range sorted {
		fmt.Printf("  | %-13s | %9.1f | %11d | %12.1f |\n", r.Name, r.NsPerRecord, r.AllocsPerLoad, r.BytesPerRecord)
	}

	entries := make([]output.WinnerEntry, len(sorted))
	for i, r := range sorted {
		entries[i] = output.WinnerEntry{Name: r.Name, Score: r.NsPerRecord}
	}
	printWinner(entries, "ns/record", "slower")
	return results
}

func runMemoryBenchmarks(opts options, wl *workload.Workload) []benchmark.MemoryResult {
	printSuite("memory", "overhead per record (isolated processes)")
	printTest("memory", fmt.Sprintf("%s records, %s", humanize.Comma(int64(len(wl.Orders))), wl))

	results, err := benchmark.RunMemory(opts.names, wl)
	if err != nil {
		fmt.Printf("  error: %v\n\n", err)
		return nil
	}

	fmt.Println("  | Cache         | Items Stored |     Memory | Overhead (bytes/item) |")
	fmt.Println("  |---------------|--------------|------------|-----------------------|")
	for _, r := range results {
		fmt.Printf("  | %-13s | %12d | %10s | %21d |\n",
			r.Name, r.Items, humanize.IBytes(r.Bytes), r.BytesPerRecord)
	}

	if len(results) >= 2 {
		best := results[0]
		second := results[1]
		savings := float64(second.Bytes-best.Bytes) / float64(second.Bytes) * 100
		fmt.Printf("\n  winner: %s (%.1f%% less memory vs %s)\n", best.Name, savings, second.Name)
	}
	fmt.Println()
	return results
}

func printOverallRanking(rankings []output.Ranking) {
	if len(rankings) < 2 {
		return
	}

	printSuite("summary", "ranked voting across all tests")

	for i := 0; i < len(rankings) && i < 3; i++ {
		r := rankings[i]
		fmt.Printf("  #%d  %s (%.0f points)\n", r.Rank, r.Name, r.Score)
	}
	fmt.Println()
}

// writeReports writes the requested result files.
func writeReports(opts options, results output.Results) error {
	commandLine := "hashmark " + strings.Join(os.Args[1:], " ")
	results.MachineInfo.CommandLine = commandLine

	if opts.outDir != "" {
		mdPath := filepath.Join(opts.outDir, "hashmark_results.md")
		if err := output.WriteMarkdown(mdPath, results, commandLine); err != nil {
			return fmt.Errorf("writing Markdown: %w", err)
		}
		fmt.Printf("Markdown: %s\n", mdPath)

		jsonPath := filepath.Join(opts.outDir, "hashmark_results.json")
		if err := output.WriteJSON(jsonPath, results, commandLine); err != nil {
			return fmt.Errorf("writing JSON: %w", err)
		}
		fmt.Printf("JSON: %s\n", jsonPath)
	}

	if opts.metricsPath != "" {
		if err := output.WriteMetrics(opts.metricsPath, results); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
		fmt.Printf("Metrics: %s\n", opts.metricsPath)
	}
	return nil
}
