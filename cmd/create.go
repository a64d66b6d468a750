package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nonce-firewall/taskflow/internal/clierr"
	"github.com/nonce-firewall/taskflow/internal/config"
	"github.com/nonce-firewall/taskflow/internal/date"
	"github.com/nonce-firewall/taskflow/internal/output"
	"github.com/nonce-firewall/taskflow/internal/task"
)

var createCmd = &cobra.Command{
	Use:     "create [TITLE]",
	Aliases: []string{"add"},
	Short:   "Create a new task",
	Long: `Creates a new task with the given title and optional fields.

Title can be provided as a positional argument or via --title flag.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().String("title", "", "task title (alternative to positional argument)")
	createCmd.Flags().String("description", "", "task description")
	createCmd.Flags().String("status", "", "task status (default from config)")
	createCmd.Flags().String("priority", "", "task priority (default from config)")
	createCmd.Flags().String("category", "", "task category")
	createCmd.Flags().String("due", "", "due date (YYYY-MM-DD)")
	createCmd.Flags().StringSlice("tags", nil, "comma-separated tags")
	createCmd.Flags().SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		switch name {
		case "tag":
			name = "tags"
		case "desc", "body":
			name = "description"
		}
		return pflag.NormalizedName(name)
	})
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Hold the lock across the whole load-create-save cycle so a
	// concurrent taskflow process cannot clobber the new task.
	unlock, err := lockMutations(cfg)
	if err != nil {
		return err
	}
	defer unlock() //nolint:errcheck // best-effort unlock on exit

	st, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	title, err := resolveCreateTitle(cmd, args)
	if err != nil {
		return err
	}

	draft, err := buildDraft(cmd, cfg, title)
	if err != nil {
		return err
	}

	t, err := st.Create(draft)
	if err = warnPersist(err); err != nil {
		return err
	}

	logActivity(cfg, "create", t.ID, t.Title)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, t)
	}
	output.Messagef(os.Stdout, "Created task %s: %s", output.ShortID(t.ID), t.Title)
	output.Messagef(os.Stdout, "  Status: %s | Priority: %s", t.Status, t.Priority)
	if len(t.Tags) > 0 {
		output.Messagef(os.Stdout, "  Tags: %s", strings.Join(t.Tags, ", "))
	}
	return nil
}

// resolveCreateTitle returns the task title from either the positional arg or --title flag.
func resolveCreateTitle(cmd *cobra.Command, args []string) (string, error) {
	flagTitle, _ := cmd.Flags().GetString("title")
	hasPositional := len(args) > 0
	hasFlag := flagTitle != ""

	switch {
	case hasPositional && hasFlag:
		return "", clierr.New(clierr.InvalidInput,
			"title provided both as argument and --title flag; use one or the other")
	case hasPositional:
		return args[0], nil
	case hasFlag:
		return flagTitle, nil
	default:
		return "", clierr.New(clierr.InvalidTitle, "title is required: provide it as an argument or with --title")
	}
}

// buildDraft assembles a validated draft from flags, falling back to the
// configured defaults for status and priority.
func buildDraft(cmd *cobra.Command, cfg *config.Config, title string) (task.Draft, error) {
	draft := task.Draft{
		Title:    title,
		Status:   cfg.DefaultStatus(),
		Priority: cfg.DefaultPriority(),
	}

	if v, _ := cmd.Flags().GetString("description"); v != "" {
		draft.Description = v
	}
	if v, _ := cmd.Flags().GetString("status"); v != "" {
		status, err := task.ParseStatus(v)
		if err != nil {
			return task.Draft{}, err
		}
		draft.Status = status
	}
	if v, _ := cmd.Flags().GetString("priority"); v != "" {
		priority, err := task.ParsePriority(v)
		if err != nil {
			return task.Draft{}, err
		}
		draft.Priority = priority
	}
	if v, _ := cmd.Flags().GetString("category"); v != "" {
		draft.Category = v
	}
	if v, _ := cmd.Flags().GetString("due"); v != "" {
		d, err := date.Parse(v)
		if err != nil {
			return task.Draft{}, task.ErrInvalidDate(v, err)
		}
		draft.DueDate = &d
	}
	if v, _ := cmd.Flags().GetStringSlice("tags"); len(v) > 0 {
		draft.Tags = v
	}

	return draft, nil
}
