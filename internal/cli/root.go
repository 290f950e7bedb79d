// Package cli implements the movie-dashboard CLI commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rcliao/movie-dashboard/internal/config"
	"github.com/rcliao/movie-dashboard/internal/favorites"
	"github.com/rcliao/movie-dashboard/internal/model"
	"github.com/rcliao/movie-dashboard/internal/session"
	"github.com/rcliao/movie-dashboard/internal/store"
	"github.com/rcliao/movie-dashboard/internal/uistate"
)

var (
	dbPath      string
	formatFlag  string
	configPath  string
	logLevel    string
	apiTemplate string
	httpTimeout time.Duration

	cfg *config.Config
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "movie-dashboard",
	Short: "Browse a paged movie catalog from the terminal",
	Long: "Browse, search and sort a paged movie catalog, and keep favorites. " +
		"State is kept in a local SQLite database between runs.",
	PersistentPreRunE: loadConfig,
	SilenceUsage:      true,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $MOVIE_DASHBOARD_DB or ~/.movie-dashboard/dashboard.db)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "text", "Output format: text, json or yaml")
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: ~/.movie-dashboard/config.yaml)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	RootCmd.PersistentFlags().StringVar(&apiTemplate, "api-url", "", "Movies API URL template with a {{page}} placeholder")
	RootCmd.PersistentFlags().DurationVar(&httpTimeout, "timeout", 0, "HTTP timeout per page request")
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if dbPath != "" {
		c.DBPath = dbPath
	}
	if logLevel != "" {
		c.Log.Level = logLevel
	}
	if apiTemplate != "" {
		c.APIURLTemplate = apiTemplate
	}
	if httpTimeout > 0 {
		c.HTTPTimeout = httpTimeout
	}
	switch formatFlag {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", formatFlag)
	}

	if err := config.InitLogger(c.Log.Level, c.Log.File); err != nil {
		return err
	}
	cfg = c
	log := config.GetLogger()
	log.Debug().Str("db", c.DBPath).Str("command", cmd.Name()).Msg("config loaded")
	return nil
}

func getDBPath() string {
	if cfg != nil {
		return cfg.DBPath
	}
	return config.Default().DBPath
}

func logger() zerolog.Logger {
	return config.GetLogger()
}

func openStore() (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(getDBPath())
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}

// app bundles the stores every dashboard command works with.
type app struct {
	db   *store.SQLiteStore
	ui   *uistate.Store
	favs *favorites.Store
	auth *session.Manager
}

func openApp(ctx context.Context) *app {
	db, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	log := logger()
	return &app{
		db:   db,
		ui:   uistate.Load(ctx, db, uistate.WithLogger(log)),
		favs: favorites.Load(ctx, db, favorites.WithLogger(log)),
		auth: session.Load(ctx, db, session.WithLogger(log)),
	}
}

func (a *app) Close() { a.db.Close() }

// requireUser stops the command unless someone is signed in.
func (a *app) requireUser() model.AuthUser {
	u, ok := a.auth.CurrentUser()
	if !ok {
		a.Close()
		fmt.Fprintln(os.Stderr, "error: not signed in; run `movie-dashboard login` or `movie-dashboard signup` first")
		os.Exit(1)
	}
	return u
}
