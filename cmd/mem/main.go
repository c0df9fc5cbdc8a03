// Package main measures memory usage for a single cache implementation.
// Run in isolated process for accurate measurements.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/tstromberg/hashmark/internal/benchmark"
	"github.com/tstromberg/hashmark/internal/cache"
	"github.com/tstromberg/hashmark/internal/workload"
)

var keepAlive any

type memOutput struct {
	Name  string `json:"name"`
	Error string `json:"error,omitempty"`
	Items int    `json:"items"`
	Bytes uint64 `json:"bytes"`
}

func main() {
	cacheName := flag.String("cache", "", "cache implementation to measure, or \"baseline\"")
	wlPath := flag.String("workload", "", "workload snapshot written by the parent process")
	flag.Parse()

	out := json.NewEncoder(os.Stdout)
	fail := func(msg string) {
		out.Encode(memOutput{Name: *cacheName, Error: msg}) //nolint:errcheck,gosec // stdout
	}

	if *cacheName == "" || *wlPath == "" {
		fail("cache name and workload required")
		return
	}

	w, err := workload.LoadFile(*wlPath)
	if err != nil {
		fail(err.Error())
		return
	}

	var factory cache.Factory
	if *cacheName != benchmark.BaselineName {
		if factory, err = cache.Lookup(*cacheName); err != nil {
			fail(err.Error())
			return
		}
	}

	runtime.GC()
	debug.FreeOSMemory()

	items := len(w.Orders)
	if factory != nil {
		c := factory()
		c.Init(w.Orders, w.Access)
		items = c.Size()
		keepAlive = c
	}

	runtime.GC()
	time.Sleep(100 * time.Millisecond)
	runtime.GC()
	debug.FreeOSMemory()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	runtime.KeepAlive(w)

	if err := out.Encode(memOutput{Name: *cacheName, Items: items, Bytes: mem.Alloc}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
