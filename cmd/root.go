// Package cmd implements the taskflow CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nonce-firewall/taskflow/internal/clierr"
	"github.com/nonce-firewall/taskflow/internal/config"
	"github.com/nonce-firewall/taskflow/internal/filelock"
	"github.com/nonce-firewall/taskflow/internal/kv"
	"github.com/nonce-firewall/taskflow/internal/output"
	"github.com/nonce-firewall/taskflow/internal/storage"
	"github.com/nonce-firewall/taskflow/internal/store"
)

// version is set at build time via ldflags.
var version = "dev"

// Global flags.
var (
	flagJSON    bool
	flagTable   bool
	flagCompact bool
	flagDir     string
	flagNoColor bool
)

var rootCmd = &cobra.Command{
	Use:   "taskflow",
	Short: "Track tasks from your terminal",
	Long: `taskflow is a personal task tracker: create, edit, filter, and sort
tasks, all stored in a single local database. Run taskflow without a
subcommand to open the interactive list.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runTUI,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagNoColor || os.Getenv("NO_COLOR") != "" {
			output.DisableColor()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagTable, "table", false, "output as table")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "compact", false, "compact one-line-per-record output")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "oneline", false, "alias for --compact")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "path to the taskflow data directory")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable color output")
}

// Execute runs the root command.
func Execute() {
	_, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}

	// Handle SilentError — exit with code, no output.
	var silent *clierr.SilentError
	if errors.As(err, &silent) {
		os.Exit(silent.Code)
	}

	// Determine if JSON mode is active.
	jsonMode := flagJSON
	if !jsonMode {
		jsonMode = os.Getenv("TASKFLOW_OUTPUT") == "json"
	}

	if jsonMode {
		var cliErr *clierr.Error
		if errors.As(err, &cliErr) {
			output.JSONError(os.Stdout, cliErr.Code, cliErr.Message, cliErr.Details)
			os.Exit(cliErr.ExitCode())
		}
		// Unknown error — wrap as INTERNAL_ERROR.
		output.JSONError(os.Stdout, clierr.InternalError, err.Error(), nil)
		os.Exit(2) //nolint:mnd // exit code 2 for internal errors
	}

	// Non-JSON mode: print to stderr.
	fmt.Fprintln(os.Stderr, err)
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		os.Exit(cliErr.ExitCode())
	}
	os.Exit(1)
}

// resolveDir returns the absolute path to the taskflow data directory.
func resolveDir() (string, error) {
	if flagDir != "" {
		return flagDir, nil
	}
	return config.DefaultDir()
}

// loadConfig finds and loads the config, creating the default data
// directory on first run.
func loadConfig() (*config.Config, error) {
	dir, err := resolveDir()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(dir)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, config.ErrNotFound) {
		return nil, err
	}

	return config.Init(dir)
}

// openStore opens the database and hydrates the collection store from it.
// The returned closer must be called when the command is done.
func openStore(cfg *config.Config) (*store.Store, func(), error) {
	db, err := kv.Open(cfg.DataPath())
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	st := store.Open(storage.NewAdapter(db))
	return st, func() { _ = db.Close() }, nil
}

// lockMutations takes the advisory lock that serializes load-mutate-save
// cycles across processes.
func lockMutations(cfg *config.Config) (func() error, error) {
	unlock, err := filelock.Lock(cfg.LockPath())
	if err != nil {
		return nil, fmt.Errorf("acquiring lock: %w", err)
	}
	return unlock, nil
}

// warnPersist downgrades a post-mutation persistence failure to a warning.
// The in-memory operation succeeded; only the write-through failed.
func warnPersist(err error) error {
	if err == nil {
		return nil
	}
	var pe *store.PersistError
	if errors.As(err, &pe) {
		fmt.Fprintf(os.Stderr, "Warning: changes may not be saved: %v\n", pe.Err)
		return nil
	}
	return err
}

// outputFormat returns the detected output format from flags/env.
func outputFormat() output.Format {
	return output.Detect(flagJSON, flagTable, flagCompact)
}

// logActivity appends an entry to the activity log. Errors are silently
// discarded because logging should never fail a command.
func logActivity(cfg *config.Config, action, taskID, detail string) {
	store.LogMutation(cfg.Dir(), action, taskID, detail)
}
