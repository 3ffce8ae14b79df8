// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand initializes the config file and local database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml and initialize the history database",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}

// migrateCommand runs a full migration
func migrateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Migrate audio files from the remote store into the platform",
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{
				Name:    "concurrency",
				Aliases: []string{"n"},
				Usage:   "Concurrent pipeline workers (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "plain",
				Usage: "Disable the live progress view",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the run result as JSON",
			},
			&cli.BoolFlag{
				Name:  "no-history",
				Usage: "Skip recording the run in the history database",
			},
		},
		Action: r.Migrate,
	}
}

// historyCommand lists stored runs
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recorded migration runs",
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of runs to show",
				Value: 20,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.History,
	}
}

// lsCommand lists a remote folder, a debugging aid for store configuration
func lsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "ls",
		Usage: "List entries in a remote store folder",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "path",
			},
		},
		Flags:  []cli.Flag{configFlag()},
		Action: r.List,
	}
}
