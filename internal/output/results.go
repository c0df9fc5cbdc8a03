// Package output provides result formatting and export.
package output

import (
	"runtime"

	"github.com/tstromberg/hashmark/internal/benchmark"
)

// Results holds everything one invocation measured.
type Results struct {
	Timestamp     string                   `json:"timestamp"`
	MachineInfo   MachineInfo              `json:"machineInfo"`
	Config        benchmark.Config         `json:"config"`
	Access        []benchmark.AccessResult `json:"access,omitempty"`
	Load          []benchmark.LoadResult   `json:"load,omitempty"`
	Memory        []benchmark.MemoryResult `json:"memory,omitempty"`
	Rankings      []Ranking                `json:"rankings,omitempty"`
	MedalTable    *MedalTable              `json:"medalTable,omitempty"`
	ChecksumError string                   `json:"checksumError,omitempty"`
}

// MachineInfo holds information about the benchmark environment.
type MachineInfo struct {
	OS          string `json:"os"`
	Arch        string `json:"arch"`
	NumCPU      int    `json:"numCPU"`
	GoVersion   string `json:"goVersion"`
	CommandLine string `json:"commandLine"`
}

// CurrentMachine describes the running process.
func CurrentMachine() MachineInfo {
	return MachineInfo{
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		NumCPU:    runtime.NumCPU(),
		GoVersion: runtime.Version(),
	}
}

// Ranking represents an overall ranking entry.
type Ranking struct {
	Rank   int     `json:"rank"`
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
	Gold   int     `json:"gold"`
	Silver int     `json:"silver"`
	Bronze int     `json:"bronze"`
}

// BenchmarkMedal represents a single benchmark's top 3 placements.
// Tied entries share a placement.
type BenchmarkMedal struct {
	Name   string   `json:"name"`
	Gold   []string `json:"gold,omitempty"`
	Silver []string `json:"silver,omitempty"`
	Bronze []string `json:"bronze,omitempty"`
}

// CategoryMedals holds medals for a benchmark category with its winner.
type CategoryMedals struct {
	Name       string           `json:"name"`
	Benchmarks []BenchmarkMedal `json:"benchmarks"`
	Rankings   []Ranking        `json:"rankings"`
}

// MedalTable holds all benchmark medals organized by category.
type MedalTable struct {
	Categories []CategoryMedals `json:"categories"`
}
