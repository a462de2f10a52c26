// Package perf provides lightweight per-operation timing probes.
//
// This is Phase-1 only: min/max/sum/count per named operation, no
// exporter and no dashboard (see spec.md §9 Open Questions).
package perf

import (
	"sync"
	"time"
)

// Sample is one timing observation.
type Sample struct {
	Min, Max, Sum time.Duration
	Count         int64
}

// Mean returns the arithmetic mean duration, or zero if no samples.
func (s Sample) Mean() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Sum / time.Duration(s.Count)
}

// Histogram accumulates Samples keyed by operation name.
//
// Safe for concurrent use, though the readline loop is single-threaded
// per spec.md §5 — the lock exists for the rare case a collaborator
// records timing from its own goroutine (e.g. an async completion
// source warming a cache).
type Histogram struct {
	mu      sync.Mutex
	samples map[string]Sample
}

// NewHistogram creates an empty Histogram.
func NewHistogram() *Histogram {
	return &Histogram{samples: make(map[string]Sample)}
}

// Record adds one observation of d for the named operation.
func (h *Histogram) Record(op string, d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.samples[op]
	if !ok {
		s = Sample{Min: d, Max: d}
	}
	if d < s.Min {
		s.Min = d
	}
	if d > s.Max {
		s.Max = d
	}
	s.Sum += d
	s.Count++
	h.samples[op] = s
}

// Snapshot returns the current Sample for op (zero value if unseen).
func (h *Histogram) Snapshot(op string) Sample {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.samples[op]
}

// Timer returns a stop function that records elapsed time for op when called.
//
//	stop := hist.Timer("display.format")
//	defer stop()
func (h *Histogram) Timer(op string) func() {
	start := time.Now()
	return func() {
		h.Record(op, time.Since(start))
	}
}
