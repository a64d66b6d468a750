package cmd

import (
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/nonce-firewall/taskflow/internal/output"
)

var showCmd = &cobra.Command{
	Use:     "show ID",
	Aliases: []string{"get", "view"},
	Short:   "Show a single task in detail",
	Long: `Shows all fields of a single task. The ID may be abbreviated to any
unique prefix, such as the short ID printed by list.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

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
	now := time.Now()

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, t)
	case output.FormatCompact:
		output.TaskDetailCompact(os.Stdout, t, now)
	default:
		output.TaskDetail(os.Stdout, t, now, renderMarkdown(t.Description))
	}
	return nil
}

// renderMarkdown renders a description as terminal markdown. On any
// rendering failure the raw text is returned unchanged.
func renderMarkdown(text string) string {
	if text == "" {
		return ""
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return text
	}
	rendered, err := r.Render(text)
	if err != nil {
		return text
	}
	return rendered
}
