package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/soundlift/soundlift/internal/report"
	"github.com/soundlift/soundlift/internal/shared"
)

// List prints the entries of a remote store folder.
func (r *Runner) List(ctx context.Context, cmd *cli.Command) error {
	if err := r.reloadConfig(cmd.String("config")); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	folder := cmd.StringArg("path")
	if folder == "" {
		return cli.Exit(fmt.Sprintf("%v: path", shared.ErrMissingArgument), 1)
	}

	entries, err := r.store.List(ctx, folder)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	for _, entry := range entries {
		if entry.Dir {
			r.writePlain("%-50s <dir>\n", entry.Name+"/")
		} else {
			r.writePlain("%-50s %s\n", entry.Name, report.FormatBytes(entry.Size))
		}
	}
	r.writePlain("%d entries\n", len(entries))
	return nil
}
