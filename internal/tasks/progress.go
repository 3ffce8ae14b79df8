package tasks

import (
	"sync"
	"time"
)

// Aggregator holds process-wide run counters. Mutators are called by
// concurrent pipeline workers; the renderer only takes snapshots.
type Aggregator struct {
	mu          sync.Mutex
	totalFiles  int
	completed   int
	totalBytes  int64
	transferred int64
	startedAt   time.Time
}

// Snapshot is a coherent point-in-time view of the run counters.
type Snapshot struct {
	CompletedFiles   int
	TotalFiles       int
	BytesTransferred int64
	TotalBytes       int64
	ElapsedSeconds   float64
}

// NewAggregator creates an aggregator with zeroed counters.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Begin records the run totals and start timestamp. Called once before
// workers start.
func (a *Aggregator) Begin(totalFiles int, totalBytes int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.totalFiles = totalFiles
	a.totalBytes = totalBytes
	a.startedAt = time.Now()
}

// AddBytes accumulates newly transferred bytes. Callers pass deltas, never
// cumulative values; non-positive deltas are ignored.
func (a *Aggregator) AddBytes(delta int64) {
	if delta <= 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.transferred += delta
}

// CompleteFile increments the completed-file count by exactly one.
func (a *Aggregator) CompleteFile() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.completed++
}

// Snapshot returns a coherent copy of the counters.
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	var elapsed float64
	if !a.startedAt.IsZero() {
		elapsed = time.Since(a.startedAt).Seconds()
	}
	return Snapshot{
		CompletedFiles:   a.completed,
		TotalFiles:       a.totalFiles,
		BytesTransferred: a.transferred,
		TotalBytes:       a.totalBytes,
		ElapsedSeconds:   elapsed,
	}
}

// Percent returns the overall completion percentage, floored.
func (s Snapshot) Percent() int {
	if s.TotalFiles == 0 {
		return 0
	}
	return s.CompletedFiles * 100 / s.TotalFiles
}

// Throughput returns average bytes per second since the run began.
func (s Snapshot) Throughput() float64 {
	if s.ElapsedSeconds <= 0 {
		return 0
	}
	return float64(s.BytesTransferred) / s.ElapsedSeconds
}
