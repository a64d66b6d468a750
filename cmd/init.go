package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nonce-firewall/taskflow/internal/clierr"
	"github.com/nonce-firewall/taskflow/internal/config"
	"github.com/nonce-firewall/taskflow/internal/output"
	"github.com/nonce-firewall/taskflow/internal/task"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the taskflow data directory",
	Long: `Creates the data directory with a default config.yml. Commands do
this automatically on first run; init exists for setting a non-default
location or defaults up front.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().String("default-status", "", "default status for new tasks")
	initCmd.Flags().String("default-priority", "", "default priority for new tasks")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	dir, err := resolveDir()
	if err != nil {
		return err
	}

	if _, err := os.Stat(filepath.Join(dir, config.ConfigFileName)); err == nil {
		return clierr.Newf(clierr.InvalidInput, "already initialized in %s", dir).
			WithDetails(map[string]any{"dir": dir})
	}

	cfg := config.NewDefault()
	cfg.SetDir(dir)

	if v, _ := cmd.Flags().GetString("default-status"); v != "" {
		if _, err := task.ParseStatus(v); err != nil {
			return err
		}
		cfg.Defaults.Status = v
	}
	if v, _ := cmd.Flags().GetString("default-priority"); v != "" {
		if _, err := task.ParsePriority(v); err != nil {
			return err
		}
		cfg.Defaults.Priority = v
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	const dirMode = 0o750
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]string{
			"status": "initialized",
			"dir":    dir,
			"config": cfg.ConfigPath(),
			"data":   cfg.DataPath(),
		})
	}

	output.Messagef(os.Stdout, "Initialized taskflow in %s", dir)
	output.Messagef(os.Stdout, "  Config: %s", cfg.ConfigPath())
	output.Messagef(os.Stdout, "  Data:   %s", cfg.DataPath())
	return nil
}
