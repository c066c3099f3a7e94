// Package metrics provides a lightweight metrics sink for the voice
// pipeline. The sink collects named counters and timing samples for
// later scraping or logging.
//
// Pipeline components call the sink synchronously on their own
// goroutine; implementations must therefore never block. The Memory
// sink only takes a short mutex hold and satisfies this requirement
// under the pipeline's single-writer sequencing.
package metrics

import (
	"sync"
	"time"
)

// Sink collects counters and timing samples emitted by the pipeline.
type Sink interface {
	// Increment adds one to the named counter.
	Increment(name string)

	// RecordTiming records a duration sample in milliseconds under the
	// given name.
	RecordTiming(name string, ms float64)

	// Snapshot returns a copy of all counter values.
	Snapshot() map[string]int64
}

// Memory is an in-memory Sink suitable for local deployments and tests.
type Memory struct {
	mu          sync.Mutex
	counters    map[string]int64
	timings     map[string]float64
	lastUpdated map[string]time.Time
}

var _ Sink = (*Memory)(nil)

// NewMemory creates an empty in-memory sink.
func NewMemory() *Memory {
	return &Memory{
		counters:    make(map[string]int64),
		timings:     make(map[string]float64),
		lastUpdated: make(map[string]time.Time),
	}
}

// Increment adds one to the named counter.
func (m *Memory) Increment(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name]++
	m.lastUpdated[name] = time.Now()
}

// RecordTiming records the most recent timing sample for the name.
func (m *Memory) RecordTiming(name string, ms float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timings[name] = ms
	m.lastUpdated[name] = time.Now()
}

// Snapshot returns a copy of all counter values.
func (m *Memory) Snapshot() map[string]int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int64, len(m.counters))
	for k, v := range m.counters {
		out[k] = v
	}
	return out
}

// Timing returns the most recent timing sample recorded under name,
// and whether one exists.
func (m *Memory) Timing(name string) (float64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ms, ok := m.timings[name]
	return ms, ok
}

// Nop is a Sink that discards everything.
type Nop struct{}

var _ Sink = Nop{}

func (Nop) Increment(string)             {}
func (Nop) RecordTiming(string, float64) {}
func (Nop) Snapshot() map[string]int64   { return nil }
