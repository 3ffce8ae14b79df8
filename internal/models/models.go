// package models defines the data model for the audio migration tool
package models

import (
	"fmt"
	"time"
)

// Model defines the base interface for persistent models.
type Model interface {
	ID() string      // ID returns the unique identifier for this model
	Validate() error // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error        // Create inserts a new model into the database
	Get(id string) (T, error)    // Get retrieves a model by its ID
	List(limit int) ([]T, error) // List retrieves the most recent models, newest first
	Delete(id string) error      // Delete removes a model from the database by its ID
}

// RunRecord is the persisted summary of one completed migration run.
type RunRecord struct {
	RunID            string        `json:"id"`
	StartedAt        time.Time     `json:"started_at"`
	FinishedAt       time.Time     `json:"finished_at"`
	TotalFiles       int           `json:"total_files"`
	Succeeded        int           `json:"succeeded"`
	Failed           int           `json:"failed"`
	TotalBytes       int64         `json:"total_bytes"`
	BytesTransferred int64         `json:"bytes_transferred"`
	Failures         []FailureItem `json:"failures,omitempty"`
}

// FailureItem is one per-file failure belonging to a run.
type FailureItem struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

func (r *RunRecord) ID() string { return r.RunID }

func (r *RunRecord) Validate() error {
	if r.RunID == "" {
		return fmt.Errorf("run record missing id")
	}
	if r.TotalFiles < 0 || r.Succeeded < 0 || r.Failed < 0 {
		return fmt.Errorf("run record has negative counts")
	}
	if r.Succeeded+r.Failed != r.TotalFiles {
		return fmt.Errorf("run record counts do not add up: %d + %d != %d", r.Succeeded, r.Failed, r.TotalFiles)
	}
	if r.FinishedAt.Before(r.StartedAt) {
		return fmt.Errorf("run record finished before it started")
	}
	return nil
}
