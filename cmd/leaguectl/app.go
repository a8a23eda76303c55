package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/codr1/leaguedesk/internal/config"
	"github.com/codr1/leaguedesk/internal/consistency"
	"github.com/codr1/leaguedesk/internal/db"
	"github.com/codr1/leaguedesk/internal/notify"
	"github.com/codr1/leaguedesk/internal/store"
)

// annotationNoConfig marks commands that run without loading configuration.
const annotationNoConfig = "no-config"

// app carries what every subcommand shares: configuration, and once opened,
// the database and engine.
type app struct {
	configPath string
	logLevel   string

	cfg      *config.Config
	database *db.DB
	engine   *consistency.Engine
	reporter notify.Reporter
	wait     func()
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "League document store and consistency engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[annotationNoConfig] != "" {
				return nil
			}
			return a.loadConfig()
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "config/config.yaml", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	cmd.AddCommand(
		newMigrateCmd(a),
		newCreateCmd(a),
		newUpdateCmd(a),
		newGetCmd(a),
		newDeleteCmd(a),
		newImportCmd(a),
		newCheckDBCmd(a),
		newStandingsCmd(a),
		newAuditCmd(a),
		newScheduleCmd(a),
		newWatchCmd(a),
		newHashPasswordCmd(),
		newVersionCmd(),
	)
	return cmd
}

func (a *app) loadConfig() error {
	cfg, err := config.LoadOrDefault(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.logLevel != "" {
		cfg.App.LogLevel = a.logLevel
	}
	a.cfg = cfg
	setupLogger(cfg.App.Environment, cfg.App.LogLevel)
	return nil
}

func setupLogger(environment, level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	parsed, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}

// open connects to the database (applying migrations) and builds the engine.
func (a *app) open(ctx context.Context) error {
	database, err := db.NewFromConfig(a.cfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	reporter, wait, err := notify.FromConfig(ctx, a.cfg.Notifications)
	if err != nil {
		_ = database.Close()
		return fmt.Errorf("set up notifications: %w", err)
	}

	a.database = database
	a.reporter = reporter
	a.wait = wait
	a.engine = consistency.New(store.NewSQLStore(database), consistency.WithReporter(reporter))
	return nil
}

// withEngine opens the engine, runs fn with a command-scoped context and
// closes everything afterwards.
func (a *app) withEngine(cmd *cobra.Command, fn func(ctx context.Context) error) error {
	ctx := commandContext(cmd)
	if err := a.open(ctx); err != nil {
		return err
	}
	defer a.close()
	return fn(ctx)
}

func (a *app) close() {
	if a.wait != nil {
		a.wait()
	}
	if a.database != nil {
		if err := a.database.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}
	a.database = nil
	a.engine = nil
	a.wait = nil
}

// commandContext returns the command context with a logger naming the
// subcommand attached.
func commandContext(cmd *cobra.Command) context.Context {
	logger := log.With().Str("command", cmd.Name()).Logger()
	return logger.WithContext(cmd.Context())
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readJSON decodes a JSON object from path, or from stdin when path is "-".
func readJSON(path string, stdin io.Reader) (store.Data, error) {
	var r io.Reader
	if path == "-" {
		r = stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var data store.Data
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if data == nil {
		return nil, fmt.Errorf("%s: expected a JSON object", path)
	}
	return data, nil
}
