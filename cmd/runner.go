package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/qpm/internal/repositories"
	"github.com/desertthunder/qpm/internal/services"
	"github.com/desertthunder/qpm/internal/shared"
	"github.com/desertthunder/qpm/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	ranking     tasks.RankingClient
	logger      *log.Logger
	output      io.Writer
	ownsRanking bool // ranking was built from config and is rebuilt when the config changes
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Ranking tasks.RankingClient // Defaults to a [services.RankingService] built from Config
	Logger  *log.Logger
	Output  io.Writer
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

	return &Runner{
		config:  opts.Config,
		ranking: opts.Ranking,
		logger:  opts.Logger,
		output:  opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		generateCommand, queueCommand, historyCommand, tuiCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before applies the global --debug and --config flags.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("debug") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	if cmd.IsSet("config") {
		config, err := shared.LoadConfig(cmd.String("config"))
		if err != nil {
			return ctx, err
		}
		r.SetConfig(config)
		r.logger.Debug("loaded config", "path", cmd.String("config"))
	}
	return ctx, nil
}

// SetConfig replaces the configuration. A ranking client built from the old config is discarded.
func (r *Runner) SetConfig(config *shared.Config) {
	r.config = config
	if r.ownsRanking {
		r.ranking = nil
		r.ownsRanking = false
	}
}

// SetLogger replaces the logger used by the runner and everything it builds afterwards.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	if r.ownsRanking {
		r.ranking = nil
		r.ownsRanking = false
	}
}

// rankingClient returns the injected client or lazily builds one from the ranking config.
func (r *Runner) rankingClient() tasks.RankingClient {
	if r.ranking == nil {
		r.ranking = services.NewRankingServiceFromConfig(r.config.Ranking, r.logger)
		r.ownsRanking = true
	}
	return r.ranking
}

// newGenerator wires a [tasks.Generator] from the config. recorder may be nil.
func (r *Runner) newGenerator(settings tasks.Settings, recorder tasks.RunRecorder, delay bool) *tasks.Generator {
	opts := tasks.GeneratorOpts{
		Ranking:  r.rankingClient(),
		State:    tasks.NewState(settings),
		Logger:   r.logger,
		Workers:  r.config.Ranking.Workers,
		Recorder: recorder,
	}
	if delay {
		opts.DisplayDelay = r.config.Display.CompletionDelay()
	}
	return tasks.NewGenerator(opts)
}

// openHistory opens the history database. Failures are logged and reported as a nil repository.
func (r *Runner) openHistory() (*repositories.RunRepository, *sql.DB) {
	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		r.logger.Warn("run history unavailable", "path", r.config.Database.Path, "error", err)
		return nil, nil
	}
	return repositories.NewRunRepository(db), db
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
