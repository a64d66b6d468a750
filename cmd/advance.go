package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/nonce-firewall/taskflow/internal/output"
)

var advanceCmd = &cobra.Command{
	Use:     "advance ID",
	Aliases: []string{"next", "cycle"},
	Short:   "Advance a task to the next status",
	Long: `Moves a task one step along the status cycle:
todo -> in-progress -> completed -> todo.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdvance,
}

func init() {
	rootCmd.AddCommand(advanceCmd)
}

func runAdvance(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
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

	id, err := st.ResolveID(args[0])
	if err != nil {
		return err
	}
	before, _ := st.Get(id)
	oldStatus := before.Status

	t, _, err := st.AdvanceStatus(id)
	if err = warnPersist(err); err != nil {
		return err
	}

	logActivity(cfg, "advance", id, string(t.Status))

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, t)
	}
	output.Messagef(os.Stdout, "Task %s: %s -> %s", output.ShortID(id), oldStatus, t.Status)
	return nil
}
