package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cinex/internal/favorites"
	"github.com/desertthunder/cinex/internal/preferences"
	"github.com/desertthunder/cinex/internal/repositories"
	"github.com/desertthunder/cinex/internal/services"
	"github.com/desertthunder/cinex/internal/shared"
	"github.com/desertthunder/cinex/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	store      repositories.KeyValueStore
	storeDB    *sql.DB
	api        *services.APIService
	auth       *services.AuthService
	provider   services.Provider
	favorites  *favorites.Manager
	prefs      *preferences.Preferences
	engine     tasks.Engine
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Store      repositories.KeyValueStore
	API        *services.APIService
	Provider   services.Provider
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration.
//
// Without a Store the runner keeps client state in memory until [Runner.Init] opens the local store.
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
		opts.Store = repositories.NewMemoryStore()
	}
	if opts.API == nil {
		opts.API = services.NewAPIService(opts.Config.Client.ServerURL, opts.HTTPClient)
	}
	if opts.Provider == nil {
		opts.Provider = services.NewProxyService(opts.API)
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		store:      opts.Store,
		api:        opts.API,
		provider:   opts.Provider,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
	r.wire()
	return r
}

// wire rebuilds the services that sit on top of the store and provider.
func (r *Runner) wire() {
	r.auth = services.NewAuthService(r.api, r.store, r.logger)
	r.favorites = favorites.NewManager(r.store, r.notify, r.logger)
	r.prefs = preferences.New(r.store, r.logger)
	r.engine = tasks.NewMovieEngine(r.provider, r.logger)
}

// notify prints favorites changes made by CLI commands.
func (r *Runner) notify(e favorites.Event) {
	r.writePlain("%s\n", e.Message())
}

// Init loads the configuration named by --config and opens the local store, unless --ephemeral is set.
//
// A missing config file keeps the defaults; a local store that cannot be opened falls back to memory.
func (r *Runner) Init(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("debug") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	r.configPath = cmd.String("config")
	if _, err := os.Stat(r.configPath); err == nil {
		config, err := shared.LoadConfig(r.configPath)
		if err != nil {
			return ctx, err
		}
		r.config = config
	}

	if !cmd.Bool("ephemeral") {
		store, db, err := openStore(r.config.Client.StorePath)
		if err != nil {
			r.logger.Warn("failed to open local store, keeping state in memory", "error", err)
		} else {
			r.store = store
			r.storeDB = db
		}
	}

	r.api = services.NewAPIService(r.config.Client.ServerURL, r.httpClient)
	r.provider = services.NewProxyService(r.api)
	r.wire()
	return ctx, nil
}

// Close releases the local store.
func (r *Runner) Close(ctx context.Context, cmd *cli.Command) error {
	if r.storeDB == nil {
		return nil
	}
	err := r.storeDB.Close()
	r.storeDB = nil
	return err
}

// openStore opens the client's sqlite store at path, creating it and its schema as needed.
func openStore(path string) (*repositories.KeyValueRepository, *sql.DB, error) {
	path = shared.ExpandPath(path)
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, nil, fmt.Errorf("%w: failed to create store directory: %v", shared.ErrStorage, err)
		}
	}

	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", shared.ErrStorage, err)
	}
	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("%w: %v", shared.ErrStorage, err)
	}
	return repositories.NewKeyValueRepository(db), db, nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, serveCommand, authCommand, apiCommand, moviesCommand, favoritesCommand, tuiCommand,
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

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
