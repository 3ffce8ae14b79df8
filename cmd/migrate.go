package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"

	"github.com/soundlift/soundlift/internal/models"
	"github.com/soundlift/soundlift/internal/report"
	"github.com/soundlift/soundlift/internal/repositories"
	"github.com/soundlift/soundlift/internal/shared"
	"github.com/soundlift/soundlift/internal/tasks"
	"github.com/soundlift/soundlift/internal/ui"
)

// Migrate runs a full migration: enumerate, schedule, render progress,
// report, and record history. Exit status is non-zero iff a top-level
// critical error occurred or any file failed.
func (r *Runner) Migrate(ctx context.Context, cmd *cli.Command) error {
	if err := r.reloadConfig(cmd.String("config")); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if err := r.config.Validate(); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	concurrency := r.config.Migrate.Concurrency
	if n := cmd.Int("concurrency"); n > 0 {
		concurrency = int(n)
	}

	engine, err := tasks.NewEngine(r.store, r.extractor, r.platformAPI(ctx), tasks.Options{
		Folders:     r.config.Migrate.Folders,
		Concurrency: concurrency,
		Extensions:  r.config.Migrate.Extensions,
		Hash:        r.config.Migrate.Hash,
		Grace:       time.Duration(r.config.Migrate.GraceSeconds * float64(time.Second)),
	}, r.logger)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	r.logger.Info("starting migration", "folders", len(r.config.Migrate.Folders), "workers", concurrency)

	var result *tasks.RunResult
	if cmd.Bool("plain") || !isatty.IsTerminal(os.Stdout.Fd()) {
		result, err = r.runPlain(ctx, engine)
	} else {
		result, err = r.runWithView(ctx, engine)
	}
	if err != nil {
		return cli.Exit(fmt.Sprintf("migration failed: %v", err), 1)
	}

	if cmd.Bool("json") {
		if err := report.WriteJSON(r.output, result); err != nil {
			return cli.Exit(err.Error(), 1)
		}
	} else if err := report.WriteSummary(r.output, result); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if !result.NoFiles && !cmd.Bool("no-history") {
		if err := r.recordHistory(result); err != nil {
			r.logger.Warn("failed to record run history", "err", err)
		}
	}

	if result.Failed > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

// runPlain executes the engine with periodic log lines instead of the TUI.
func (r *Runner) runPlain(ctx context.Context, engine *tasks.Engine) (*tasks.RunResult, error) {
	ticker := time.NewTicker(2 * time.Second)
	stop := make(chan struct{})
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				snap := engine.Progress().Snapshot()
				r.logger.Info("progress",
					"files", fmt.Sprintf("%d/%d", snap.CompletedFiles, snap.TotalFiles),
					"bytes", report.FormatBytes(snap.BytesTransferred),
				)
			}
		}
	}()

	result, err := engine.Run(ctx)
	close(stop)
	return result, err
}

// runWithView executes the engine behind the live bubbletea view.
func (r *Runner) runWithView(ctx context.Context, engine *tasks.Engine) (*tasks.RunResult, error) {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/soundlift.log")
	if err == nil {
		r.SetLogger(fileLogger)
	}

	done := make(chan ui.RunOutcome, 1)
	finished := make(chan struct{})
	var result *tasks.RunResult
	var runErr error
	go func() {
		result, runErr = engine.Run(ctx)
		done <- ui.RunOutcome{Result: result, Err: runErr}
		close(finished)
	}()

	model := ui.NewModel(engine.Progress(), engine.Registry(), done)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return nil, fmt.Errorf("error running TUI: %w", err)
	}
	// Detaching the view does not cancel the run; wait it out.
	<-finished
	return result, runErr
}

// recordHistory persists the run summary and its failures.
func (r *Runner) recordHistory(result *tasks.RunResult) error {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		return err
	}

	record := &models.RunRecord{
		RunID:            result.RunID,
		StartedAt:        result.StartedAt,
		FinishedAt:       result.FinishedAt,
		TotalFiles:       result.TotalFiles,
		Succeeded:        result.Succeeded,
		Failed:           result.Failed,
		TotalBytes:       result.TotalBytes,
		BytesTransferred: result.BytesTransferred,
	}
	for _, f := range result.Failures {
		record.Failures = append(record.Failures, models.FailureItem{File: f.File, Reason: f.Reason})
	}

	return repositories.NewRunRepository(db).Create(record)
}
