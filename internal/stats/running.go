// Package stats provides the numeric aggregators used by the benchmark driver.
package stats

import (
	"fmt"
	"math"
)

// Running accumulates count, mean and sample standard deviation of a series
// without keeping the individual values.
type Running struct {
	n     int
	sum   float64
	sumSq float64
}

// Add folds v into the aggregate.
func (s *Running) Add(v float64) {
	s.n++
	s.sum += v
	s.sumSq += v * v
}

// N returns the number of values added.
func (s *Running) N() int {
	return s.n
}

// Mean returns the arithmetic mean, or 0 when nothing was added.
func (s *Running) Mean() float64 {
	if s.n == 0 {
		return 0
	}
	return s.sum / float64(s.n)
}

// Dev returns the sample standard deviation, or 0 with fewer than two values.
func (s *Running) Dev() float64 {
	if s.n < 2 {
		return 0
	}
	mean := s.Mean()
	v := (s.sumSq - float64(s.n)*mean*mean) / float64(s.n-1)
	if v <= 0 {
		// rounding can push a constant series slightly negative
		return 0
	}
	return math.Sqrt(v)
}

func (s *Running) String() string {
	return fmt.Sprintf("%.3f +- %.3f", s.Mean(), s.Dev())
}
