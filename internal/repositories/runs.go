// package repositories provides the persistence layer for run history.
package repositories

import (
	"database/sql"
	"fmt"

	"github.com/soundlift/soundlift/internal/models"
)

// RunRepository stores and retrieves migration run summaries.
type RunRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.RunRecord] = (*RunRepository)(nil)

// NewRunRepository creates a RunRepository backed by the given database.
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a run record and its failures in one transaction.
func (r *RunRepository) Create(run *models.RunRecord) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("invalid run record: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (id, started_at, finished_at, total_files, succeeded, failed, total_bytes, bytes_transferred)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.StartedAt, run.FinishedAt, run.TotalFiles,
		run.Succeeded, run.Failed, run.TotalBytes, run.BytesTransferred,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for _, f := range run.Failures {
		if _, err := tx.Exec(
			`INSERT INTO run_failures (run_id, file, reason) VALUES (?, ?, ?)`,
			run.RunID, f.File, f.Reason,
		); err != nil {
			return fmt.Errorf("failed to insert run failure: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run record: %w", err)
	}
	return nil
}

// Get retrieves a run record, including its failures, by id.
func (r *RunRepository) Get(id string) (*models.RunRecord, error) {
	run := &models.RunRecord{}
	err := r.db.QueryRow(
		`SELECT id, started_at, finished_at, total_files, succeeded, failed, total_bytes, bytes_transferred
		 FROM runs WHERE id = ?`, id,
	).Scan(&run.RunID, &run.StartedAt, &run.FinishedAt, &run.TotalFiles,
		&run.Succeeded, &run.Failed, &run.TotalBytes, &run.BytesTransferred)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}

	rows, err := r.db.Query(`SELECT file, reason FROM run_failures WHERE run_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query run failures: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var f models.FailureItem
		if err := rows.Scan(&f.File, &f.Reason); err != nil {
			return nil, fmt.Errorf("failed to scan failure: %w", err)
		}
		run.Failures = append(run.Failures, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate failures: %w", err)
	}

	return run, nil
}

// List retrieves the most recent runs, newest first, without their failures.
func (r *RunRepository) List(limit int) ([]*models.RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Query(
		`SELECT id, started_at, finished_at, total_files, succeeded, failed, total_bytes, bytes_transferred
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.RunRecord
	for rows.Next() {
		run := &models.RunRecord{}
		if err := rows.Scan(&run.RunID, &run.StartedAt, &run.FinishedAt, &run.TotalFiles,
			&run.Succeeded, &run.Failed, &run.TotalBytes, &run.BytesTransferred); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	return runs, nil
}

// Delete removes a run and its failures.
func (r *RunRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("run %s not found", id)
	}
	// Cascade is not guaranteed without foreign_keys pragma
	if _, err := r.db.Exec(`DELETE FROM run_failures WHERE run_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete run failures: %w", err)
	}
	return nil
}
