package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/soundlift/soundlift/internal/report"
	"github.com/soundlift/soundlift/internal/repositories"
	"github.com/soundlift/soundlift/internal/shared"
)

// History lists recorded migration runs, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	if err := r.reloadConfig(cmd.String("config")); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer db.Close()

	if err := shared.RunMigrations(db); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	runs, err := repositories.NewRunRepository(db).List(int(cmd.Int("limit")))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if cmd.Bool("json") {
		data, err := shared.MarshalJSON(runs, true)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		return r.writePlain("%s\n", data)
	}

	return report.WriteHistory(r.output, runs)
}
