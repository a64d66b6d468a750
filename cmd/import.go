package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/nonce-firewall/taskflow/internal/output"
)

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import tasks from a JSON file",
	Long: `Imports tasks from a JSON array, such as one produced by export.
Records that fail validation are skipped and reported; the rest are
appended to the collection. Pass "-" to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	raw, err := readImportFile(args[0])
	if err != nil {
		return err
	}

	unlock, err := lockMutations(cfg)
	if err != nil {
		return err
	}
	defer unlock() //nolint:errcheck

	st, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	result, err := st.ImportJSON(raw)
	if err = warnPersist(err); err != nil {
		return err
	}

	logActivity(cfg, "import", "", fmt.Sprintf("%d added, %d skipped", result.Added, len(result.Warnings)))

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, result)
	}

	output.Messagef(os.Stdout, "Imported %d tasks (%d skipped)", result.Added, len(result.Warnings))
	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "  skipped record %d: %s\n", w.Index, w.Reason)
	}
	return nil
}

func readImportFile(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // user-supplied import path
	if err != nil {
		return nil, fmt.Errorf("reading import file: %w", err)
	}
	return data, nil
}
