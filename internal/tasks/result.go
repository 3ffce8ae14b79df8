package tasks

import "time"

// RunResult contains the final accounting of one migration run.
type RunResult struct {
	RunID            string    `json:"id"`
	StartedAt        time.Time `json:"started_at"`
	FinishedAt       time.Time `json:"finished_at"`
	TotalFiles       int       `json:"total_files"`
	Succeeded        int       `json:"succeeded"`
	Failed           int       `json:"failed"`
	TotalBytes       int64     `json:"total_bytes"`
	BytesTransferred int64     `json:"bytes_transferred"`
	UniqueContent    int       `json:"unique_content"`
	Failures         []Failure `json:"failures,omitempty"`
	NoFiles          bool      `json:"no_files"`
}
