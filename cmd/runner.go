package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/soundlift/soundlift/internal/platform"
	"github.com/soundlift/soundlift/internal/shared"
	"github.com/soundlift/soundlift/internal/store"
	"github.com/soundlift/soundlift/internal/tags"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	store      store.Client
	api        platform.API
	extractor  tags.Extractor
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Store      store.Client
	API        platform.API
	Extractor  tags.Extractor
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Store == nil {
		opts.Store = store.NewDAVClient(opts.Config.Store, opts.HTTPClient)
	}
	if opts.Extractor == nil {
		opts.Extractor = tags.NewReader()
	}

	return &Runner{
		config:     opts.Config,
		store:      opts.Store,
		api:        opts.API,
		extractor:  opts.Extractor,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// SetLogger swaps the runner's logger, used when the TUI owns the terminal.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// platformAPI lazily builds the platform client so commands that never
// touch the platform don't need its configuration.
func (r *Runner) platformAPI(ctx context.Context) platform.API {
	if r.api == nil {
		r.api = platform.NewClient(ctx, r.config.Platform)
	}
	return r.api
}

// reloadConfig replaces the runner's config when the --config flag points
// somewhere other than the default.
func (r *Runner) reloadConfig(path string) error {
	if path == "" || path == "config.toml" {
		return nil
	}
	config, err := shared.LoadConfig(path)
	if err != nil {
		return err
	}
	r.config = config
	r.store = store.NewDAVClient(config.Store, r.httpClient)
	r.api = nil
	return nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, migrateCommand, historyCommand, lsCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
