package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nonce-firewall/taskflow/internal/output"
	"github.com/nonce-firewall/taskflow/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export [FILE]",
	Short: "Export all tasks as JSON",
	Long: `Exports the full task collection as a JSON array. The default file
name embeds today's date; pass "-" to write to stdout.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	data, err := st.ExportJSON()
	if err != nil {
		return fmt.Errorf("encoding tasks: %w", err)
	}

	dest := store.ExportFilename(time.Now())
	if len(args) > 0 {
		dest = args[0]
	}

	if dest == "-" {
		_, err := os.Stdout.Write(append(data, '\n'))
		return err
	}

	if err := os.WriteFile(dest, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("writing export file: %w", err)
	}

	logActivity(cfg, "export", "", dest)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"file": dest, "count": st.Len()})
	}
	output.Messagef(os.Stdout, "Exported %d tasks to %s", st.Len(), dest)
	return nil
}
