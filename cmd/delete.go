package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nonce-firewall/taskflow/internal/clierr"
	"github.com/nonce-firewall/taskflow/internal/output"
)

var deleteCmd = &cobra.Command{
	Use:     "delete ID",
	Aliases: []string{"rm", "remove"},
	Short:   "Delete a task",
	Long: `Deletes a task permanently. When run interactively this asks for
confirmation; pass --yes to skip the prompt.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
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
	t, _ := st.Get(id)

	skipPrompt, _ := cmd.Flags().GetBool("yes")
	if !skipPrompt {
		confirmed, err := confirmDelete(t.Title)
		if err != nil {
			return err
		}
		if !confirmed {
			output.Messagef(os.Stdout, "Aborted.")
			return nil
		}
	}

	_, err = st.Delete(id)
	if err = warnPersist(err); err != nil {
		return err
	}

	logActivity(cfg, "delete", id, t.Title)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]string{"deleted": id})
	}
	output.Messagef(os.Stdout, "Deleted task %s: %s", output.ShortID(id), t.Title)
	return nil
}

// confirmDelete prompts for confirmation on a terminal. Non-interactive
// invocations must pass --yes instead.
func confirmDelete(title string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, clierr.New(clierr.ConfirmationReq,
			"refusing to delete without confirmation; re-run with --yes")
	}

	fmt.Fprintf(os.Stderr, "Delete task %q? [y/N] ", title)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false, nil
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}
