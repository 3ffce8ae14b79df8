// package report renders run results and history for terminal output
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/soundlift/soundlift/internal/models"
	"github.com/soundlift/soundlift/internal/shared"
	"github.com/soundlift/soundlift/internal/tasks"
)

// WriteSummary writes the end-of-run summary. A run that found no eligible
// files is reported distinctly from a run that completed without failures.
func WriteSummary(w io.Writer, res *tasks.RunResult) error {
	if res.NoFiles {
		_, err := fmt.Fprintln(w, "No files found matching the configured extensions.")
		return err
	}

	fmt.Fprintln(w, "═══════════════════════════════════════")
	fmt.Fprintln(w, "Migration Complete")
	fmt.Fprintln(w, "═══════════════════════════════════════")
	fmt.Fprintf(w, "Files: %d succeeded, %d failed (of %d)\n", res.Succeeded, res.Failed, res.TotalFiles)
	fmt.Fprintf(w, "Transferred: %s of %s\n", FormatBytes(res.BytesTransferred), FormatBytes(res.TotalBytes))
	fmt.Fprintf(w, "Duration: %s\n", res.FinishedAt.Sub(res.StartedAt).Round(10*time.Millisecond))

	if res.Failed == 0 {
		fmt.Fprintln(w, "\nAll files migrated successfully.")
		return nil
	}

	fmt.Fprintf(w, "\nFailures (%d):\n", res.Failed)
	for _, f := range res.Failures {
		if _, err := fmt.Fprintf(w, "  ✗ %s: %s\n", f.File, f.Reason); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON writes the result as indented JSON.
func WriteJSON(w io.Writer, res *tasks.RunResult) error {
	data, err := shared.MarshalJSON(res, true)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// WriteHistory writes stored runs, newest first.
func WriteHistory(w io.Writer, runs []*models.RunRecord) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded yet.")
		return err
	}

	for _, run := range runs {
		_, err := fmt.Fprintf(w, "%s  %s  %d/%d ok  %s\n",
			run.StartedAt.Format("2006-01-02 15:04:05"),
			run.RunID[:8],
			run.Succeeded, run.TotalFiles,
			FormatBytes(run.BytesTransferred),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// FormatBytes renders a byte count with a binary unit suffix.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
