// Command powermason imports construction progress report workbooks into a
// project database and serves them over HTTP.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rpggio/powermason/internal/config"
	"github.com/rpggio/powermason/internal/domain/activity"
	"github.com/rpggio/powermason/internal/domain/project"
	"github.com/rpggio/powermason/internal/ingest"
	"github.com/rpggio/powermason/internal/sqlite"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "powermason",
		Short: "Import construction progress reports",
		Long: `powermason reads progress report workbooks (.xlsx), derives the
project's financial and progress figures and stores one record per project.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newImportCmd(),
		newMigrateCmd(),
		newUserCmd(),
	)
	return rootCmd
}

// app holds the configuration, logger and services shared by every command.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	db       *sqlite.DB
	users    *sqlite.UserRepository
	projects *project.Service
	activity *activity.Service
	importer *ingest.Service

	closers []io.Closer
}

// newApp loads configuration, opens and migrates the database and builds the
// services. Logs go to stderr unless a log file is configured, so command
// output on stdout stays clean.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	a := &app{cfg: cfg}

	logWriter := io.Writer(os.Stderr)
	if cfg.Log.Path != "" {
		fileWriter, file, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			a.closers = append(a.closers, file)
			logWriter = fileWriter
		}
	}
	a.logger = slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to prepare database path: %w", err)
	}

	a.db, err = sqlite.New(cfg.DB.Path)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append([]io.Closer{a.db}, a.closers...)

	if err := a.db.RunMigrations(); err != nil {
		a.Close()
		return nil, err
	}

	a.users = sqlite.NewUserRepository(a.db)
	a.projects = project.NewService(sqlite.NewProjectRepository(a.db), a.logger)
	a.activity = activity.NewService(sqlite.NewActivityRepository(a.db), a.logger)
	a.importer = ingest.NewService(a.projects, ingest.LayoutFromConfig(cfg.Ingest), a.logger)

	return a, nil
}

// Close releases the database and the log file.
func (a *app) Close() {
	for _, c := range a.closers {
		_ = c.Close()
	}
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
