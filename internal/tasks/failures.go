package tasks

import "sync"

// Failure is one per-file failure: the file name and a human-readable
// reason.
type Failure struct {
	File   string
	Reason string
}

// FailureCollector is an append-only list of failures in completion order.
type FailureCollector struct {
	mu       sync.Mutex
	failures []Failure
}

// NewFailureCollector creates an empty collector.
func NewFailureCollector() *FailureCollector {
	return &FailureCollector{}
}

// Record appends a failure.
func (c *FailureCollector) Record(file, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures = append(c.failures, Failure{File: file, Reason: reason})
}

// All returns a copy of the recorded failures.
func (c *FailureCollector) All() []Failure {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Failure, len(c.failures))
	copy(out, c.failures)
	return out
}

// Len returns the number of recorded failures.
func (c *FailureCollector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.failures)
}
