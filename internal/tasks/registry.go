package tasks

import (
	"sync"
	"time"
)

// TaskState is the mutable record for one in-flight file. The owning worker
// mutates it; the renderer reads it through [TaskState.View].
type TaskState struct {
	mu        sync.Mutex
	name      string
	size      int64
	phase     Phase
	percent   int
	lastBytes int64
}

// TaskView is a read-only copy of a task's display state.
type TaskView struct {
	Name    string
	Phase   Phase
	Percent int
}

// SetPhase advances the task to the given phase.
func (t *TaskState) SetPhase(p Phase) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phase = p
}

// SetPercent sets the displayed progress percentage, clamped to 0–100.
func (t *TaskState) SetPercent(p int) {
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.percent = p
}

// Observe records a cumulative bytes-sent value from the upload callback.
// It updates the displayed percentage and returns the delta against the
// last observed value, so callers can forward plain deltas to the
// aggregator. Non-advancing observations return 0.
func (t *TaskState) Observe(sent int64) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	delta := sent - t.lastBytes
	if delta <= 0 {
		return 0
	}
	t.lastBytes = sent
	if t.size > 0 {
		t.percent = int(sent * 100 / t.size)
		if t.percent > 100 {
			t.percent = 100
		}
	}
	return delta
}

// View returns a copy of the display state.
func (t *TaskState) View() TaskView {
	t.mu.Lock()
	defer t.mu.Unlock()
	return TaskView{Name: t.name, Phase: t.phase, Percent: t.percent}
}

// Registry tracks live per-file task records in insertion order. Terminal
// tasks remain visible for a grace period before eviction; that is display
// behavior only, not a correctness requirement.
type Registry struct {
	mu    sync.Mutex
	order []string
	tasks map[string]*TaskState
	grace time.Duration
}

// NewRegistry creates a registry with the given grace period for terminal
// task eviction.
func NewRegistry(grace time.Duration) *Registry {
	return &Registry{
		tasks: make(map[string]*TaskState),
		grace: grace,
	}
}

// Start registers a new in-flight record under key and returns it.
func (r *Registry) Start(key, name string, size int64) *TaskState {
	task := &TaskState{name: name, size: size, phase: Pending}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[key]; !ok {
		r.order = append(r.order, key)
	}
	r.tasks[key] = task
	return task
}

// Get returns the record registered under key.
func (r *Registry) Get(key string) (*TaskState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[key]
	return task, ok
}

// Remove evicts the record registered under key.
func (r *Registry) Remove(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[key]; !ok {
		return
	}
	delete(r.tasks, key)
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// RemoveAfterGrace schedules eviction of the record once the grace period
// elapses, keeping terminal states briefly visible.
func (r *Registry) RemoveAfterGrace(key string) {
	if r.grace <= 0 {
		r.Remove(key)
		return
	}
	time.AfterFunc(r.grace, func() { r.Remove(key) })
}

// ListActive returns up to limit task views in insertion order, plus the
// count of active records hidden by the truncation.
func (r *Registry) ListActive(limit int) ([]TaskView, int) {
	r.mu.Lock()
	states := make([]*TaskState, 0, len(r.order))
	for _, key := range r.order {
		if task, ok := r.tasks[key]; ok {
			states = append(states, task)
		}
	}
	r.mu.Unlock()

	hidden := 0
	if limit > 0 && len(states) > limit {
		hidden = len(states) - limit
		states = states[:limit]
	}

	views := make([]TaskView, len(states))
	for i, task := range states {
		views[i] = task.View()
	}
	return views, hidden
}
