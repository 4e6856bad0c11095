package stream

import (
	"sync"
	"time"
)

// ThroughputReport is the single record the throughput monitor produces:
// elapsed wall-clock time from the start barrier to the terminal marker,
// the total line count from the Sequencer's Total record, and the derived
// throughput.
type ThroughputReport struct {
	ElapsedSeconds float64
	TotalLines     uint64
	Throughput     float64 // lines per second
}

// ThroughputMonitor consumes a Start timestamp, a Total record, and the
// close of the Breakin stream, and emits a ThroughputReport every time
// either becomes newly available, so successive records overwrite previous
// ones. Each emission is also handed to sink so the caller can flush it to
// a file immediately.
//
// ObserveTotal and ObserveFinish are called from different goroutines (the
// Sequencer's total-drain goroutine and the pipeline's output drain
// goroutine), so mu serializes both the total/elapsed state and the calls
// into sink.
type ThroughputMonitor struct {
	mu    sync.Mutex
	start time.Time
	total *uint64
	sink  func(ThroughputReport)
}

// NewThroughputMonitor constructs a monitor that reports through sink.
func NewThroughputMonitor(start time.Time, sink func(ThroughputReport)) *ThroughputMonitor {
	return &ThroughputMonitor{start: start, sink: sink}
}

// ObserveTotal records the Sequencer's Total record, emitting a report
// immediately (using the elapsed time observed so far).
func (m *ThroughputMonitor) ObserveTotal(t Total) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := t.Count
	m.total = &total
	m.emitLocked(time.Now())
}

// ObserveFinish records the terminal marker on the Breakin stream, emitting
// a final report.
func (m *ThroughputMonitor) ObserveFinish() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emitLocked(time.Now())
}

// emitLocked must be called with mu held.
func (m *ThroughputMonitor) emitLocked(now time.Time) {
	if m.total == nil {
		return
	}
	elapsed := now.Sub(m.start).Seconds()
	report := ThroughputReport{ElapsedSeconds: elapsed, TotalLines: *m.total}
	if elapsed > 0 {
		report.Throughput = float64(*m.total) / elapsed
	}
	if m.sink != nil {
		m.sink(report)
	}
}
