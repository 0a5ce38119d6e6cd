package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/ferndazed/chorus/internal/cache"
	"github.com/ferndazed/chorus/internal/catalog"
	"github.com/ferndazed/chorus/internal/repositories"
	"github.com/ferndazed/chorus/internal/resolver"
	"github.com/ferndazed/chorus/internal/shared"
	"github.com/ferndazed/chorus/internal/shares"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config   *shared.Config
	store    shares.ShareStore
	cache    *cache.Store
	engine   *shares.Engine
	resolver *resolver.Resolver
	catalogs []catalog.Catalog
	db       *sql.DB
	logger   *log.Logger
	output   io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config   *shared.Config
	Store    shares.ShareStore
	Cache    *cache.Store
	Catalogs []catalog.Catalog
	Logger   *log.Logger
	Output   io.Writer
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
	if opts.Cache == nil {
		opts.Cache = cache.New(cache.WithLogger(opts.Logger))
	}

	r := &Runner{
		config:   opts.Config,
		store:    opts.Store,
		cache:    opts.Cache,
		catalogs: opts.Catalogs,
		logger:   opts.Logger,
		output:   opts.Output,
	}

	if r.store != nil {
		r.engine = shares.NewEngine(r.store, r.cache,
			shares.WithPageSize(opts.Config.Shares.PageSize),
			shares.WithLogger(opts.Logger),
		)
	}
	r.resolver = resolver.New(opts.Catalogs, resolver.WithLogger(opts.Logger))

	return r
}

// SetLogger swaps the runner's logger and propagates it to the engine and resolver.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	if r.store != nil {
		r.engine = shares.NewEngine(r.store, r.cache,
			shares.WithPageSize(r.config.Shares.PageSize),
			shares.WithLogger(logger),
		)
	}
	r.resolver = resolver.New(r.catalogs, resolver.WithLogger(logger))
}

// Close releases the lazily opened database connection, if any.
func (r *Runner) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// loadConfig reloads configuration from the command's --config flag. A
// missing file keeps the current config; a malformed one is an error.
func (r *Runner) loadConfig(cmd *cli.Command) error {
	path := cmd.String("config")
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		return err
	}
	r.config = config
	return nil
}

// ensureStore lazily opens the local share database when no store was
// injected at construction time.
func (r *Runner) ensureStore() error {
	if r.store != nil {
		return nil
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	r.db = db
	r.store = repositories.NewShareRepository(db)
	r.engine = shares.NewEngine(r.store, r.cache,
		shares.WithPageSize(r.config.Shares.PageSize),
		shares.WithLogger(r.logger),
	)
	return nil
}

// userID resolves the acting user from the flag or config.
func (r *Runner) userID(cmd *cli.Command) (string, error) {
	if id := cmd.String("user"); id != "" {
		return id, nil
	}
	if r.config.Shares.UserID != "" {
		return r.config.Shares.UserID, nil
	}
	return "", fmt.Errorf("%w: user id (set --user or shares.user_id in config)", shared.ErrMissingArgument)
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		sharesCommand, resolveCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
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

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
