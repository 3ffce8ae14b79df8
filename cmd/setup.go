package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/soundlift/soundlift/internal/shared"
)

// Setup creates the config file and initializes the history database.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")

	if err := shared.CreateConfigFile(path); err != nil {
		r.logger.Warn("config file not created", "err", err)
	} else {
		r.writePlain("Created %s. Fill in store and platform credentials.\n", path)
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer db.Close()

	if err := shared.RunMigrations(db); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	r.writePlain("Database ready at %s\n", r.config.Database.Path)
	return nil
}
