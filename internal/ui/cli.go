// Package ui provides the command-line interface.
package ui

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jborjas31/my-scheduler/internal/cache"
	"github.com/jborjas31/my-scheduler/internal/config"
	"github.com/jborjas31/my-scheduler/internal/dateutil"
	"github.com/jborjas31/my-scheduler/internal/db"
	"github.com/jborjas31/my-scheduler/internal/logging"
	"github.com/jborjas31/my-scheduler/internal/planner"
	"github.com/jborjas31/my-scheduler/internal/task"
	"github.com/jborjas31/my-scheduler/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	config *config.Config
	log    logrus.FieldLogger
	clock  dateutil.Clock

	repo    task.Repository
	cache   *cache.Repository
	planner *planner.Planner

	root    *cobra.Command
	noColor bool
}

// Option configures an App.
type Option func(*App)

// WithRepository uses repo instead of opening the configured backend.
func WithRepository(repo task.Repository) Option {
	return func(a *App) { a.repo = repo }
}

// WithLogger sets the logger passed to every component.
func WithLogger(log logrus.FieldLogger) Option {
	return func(a *App) { a.log = log }
}

// WithClock sets the clock used for "today" and the dashboard.
func WithClock(c dateutil.Clock) Option {
	return func(a *App) { a.clock = c }
}

// NewApp creates a new CLI application with the given config.
func NewApp(cfg *config.Config, opts ...Option) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	a := &App{config: cfg, log: logging.Discard(), clock: dateutil.SystemClock{}}
	for _, opt := range opts {
		opt(a)
	}

	a.root = &cobra.Command{
		Use:   "scheduler",
		Short: "Plan your day in time blocks",
		Long: `A day planner for fixed and flexible time blocks.

Run without arguments to open the interactive day view, or use the
subcommands to manage tasks from scripts.`,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if a.noColor || noColorEnv() {
				DisableColor()
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.ensurePlanner(cmd.Context())
			if err != nil {
				return err
			}
			return tui.Run(p, tui.Options{
				Clock:         a.clock,
				Theme:         a.config.UI.Theme,
				SlotInterval:  a.config.Schedule.SlotInterval,
				DefaultLength: a.config.Schedule.DefaultLength,
				UpcomingLimit: a.config.Dashboard.UpcomingLimit,
				Log:           a.log,
			})
		},
	}

	a.root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable color output")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.editCmd())
	a.root.AddCommand(a.doneCmd())
	a.root.AddCommand(a.deleteCmd())
	a.root.AddCommand(a.showCmd())
	a.root.AddCommand(a.dashboardCmd())
	a.root.AddCommand(a.serveCmd())

	return a
}

// ensurePlanner opens the configured store on first use.
func (a *App) ensurePlanner(ctx context.Context) (*planner.Planner, error) {
	if a.planner != nil {
		return a.planner, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if a.repo == nil {
		repo, err := db.Open(ctx, db.Settings{
			Backend: a.config.Storage.Backend,
			DBPath:  a.config.Storage.DBPath,
			Firestore: db.FirestoreConfig{
				ProjectID:       a.config.Firestore.ProjectID,
				CredentialsFile: a.config.Firestore.CredentialsFile,
				Collection:      a.config.Firestore.Collection,
			},
		}, db.WithLogger(a.log))
		if err != nil {
			return nil, fmt.Errorf("opening storage: %w", err)
		}
		a.repo = repo
	}

	if a.config.Cache.Enabled {
		ttl, err := a.config.CacheTTL()
		if err != nil {
			return nil, err
		}
		c, err := cache.New(a.repo, ttl, a.config.Cache.Size, a.clock)
		if err != nil {
			return nil, err
		}
		a.cache = c
		a.repo = c
	}

	a.planner = planner.New(a.repo, a.clock, a.log)
	return a.planner, nil
}

func (a *App) cacheStats() func() cache.Stats {
	if a.cache == nil {
		return nil
	}
	return a.cache.Stats
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "scheduler %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// SetIO redirects the command input and output, mostly for tests.
func (a *App) SetIO(in io.Reader, out io.Writer) {
	a.root.SetIn(in)
	a.root.SetOut(out)
	a.root.SetErr(out)
}

// SetArgs sets the arguments Execute parses instead of os.Args.
func (a *App) SetArgs(args ...string) {
	a.root.SetArgs(args)
}

// Close releases the store.
func (a *App) Close() error {
	if a.repo == nil {
		return nil
	}
	return a.repo.Close()
}
