package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/punchclock/internal/config"
	"github.com/fakeyudi/punchclock/internal/ledger"
	"github.com/fakeyudi/punchclock/internal/store"
)

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

// diag carries diagnostics (degradation, auto-close events) to stderr,
// separate from user-facing output.
var diag = log.New(os.Stderr, "punchclock: ", 0)

var rootCmd = &cobra.Command{
	Use:   "punchclock",
	Short: "Track time spent on named tasks",
	Long: `punchclock is a personal time tracker: start, stop and switch named
tasks, and report on where the time went. Records live in a local CSV file,
optionally mirrored to a PostgreSQL database (DATABASE_URL).`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		global, err := config.LoadGlobal()
		if err != nil {
			return err
		}
		project, err := config.LoadProject()
		if err != nil {
			return err
		}
		cfg = config.Merge(global, project)
		config.ApplyEnv(&cfg)
		return nil
	},
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetConfig returns the merged configuration for use by subcommands.
func GetConfig() config.Config {
	return cfg
}

// openLedger builds the persistence stack and a ledger on top of it,
// recovering any unclosed task from a prior run. A remote that cannot be
// reached at startup is logged and the session runs local-only; a broken
// local store is fatal.
func openLedger() (*ledger.Ledger, *store.Fallback, error) {
	path, err := cfg.TaskFilePath()
	if err != nil {
		return nil, nil, err
	}
	local, err := store.NewCSVStore(path)
	if err != nil {
		return nil, nil, err
	}

	var remote store.Store
	if cfg.DatabaseURL != "" {
		pg, err := store.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			diag.Printf("remote database unavailable, continuing with local only: %v", err)
		} else {
			remote = pg
		}
	}

	fb := store.NewFallback(remote, local, diag)
	l, err := ledger.New(fb, nil)
	if err != nil {
		return nil, nil, err
	}
	return l, fb, nil
}
