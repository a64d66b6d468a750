package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/nonce-firewall/taskflow/internal/clierr"
	"github.com/nonce-firewall/taskflow/internal/date"
	"github.com/nonce-firewall/taskflow/internal/output"
	"github.com/nonce-firewall/taskflow/internal/task"
)

var editCmd = &cobra.Command{
	Use:     "edit ID",
	Aliases: []string{"update"},
	Short:   "Edit fields of an existing task",
	Long: `Edits one or more fields of an existing task. Only the flags you
pass are changed; either all changes apply or none do.

Use --tags to replace the tag list wholesale, or --add-tag / --remove-tag
to adjust it incrementally.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().String("title", "", "new title")
	editCmd.Flags().String("description", "", "new description")
	editCmd.Flags().String("status", "", "new status")
	editCmd.Flags().String("priority", "", "new priority")
	editCmd.Flags().String("category", "", "new category (empty string clears it)")
	editCmd.Flags().String("due", "", "new due date (YYYY-MM-DD)")
	editCmd.Flags().Bool("clear-due", false, "remove the due date")
	editCmd.Flags().StringSlice("tags", nil, "replace all tags")
	editCmd.Flags().StringSlice("add-tag", nil, "add tags to the existing list")
	editCmd.Flags().StringSlice("remove-tag", nil, "remove tags from the existing list")
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
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

	patch, err := buildPatch(cmd, st, id)
	if err != nil {
		return err
	}
	if patch.Empty() {
		return clierr.New(clierr.NoChanges, "no changes specified; pass at least one field flag")
	}

	t, _, err := st.Update(id, patch)
	if err = warnPersist(err); err != nil {
		return err
	}

	logActivity(cfg, "edit", id, t.Title)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, t)
	}
	output.Messagef(os.Stdout, "Updated task %s: %s", output.ShortID(t.ID), t.Title)
	return nil
}

// buildPatch assembles a patch from the edit flags. Tag math against the
// current list happens here so the patch carries the final tag set.
func buildPatch(cmd *cobra.Command, st taskGetter, id string) (task.Patch, error) {
	var patch task.Patch

	if cmd.Flags().Changed("title") {
		v, _ := cmd.Flags().GetString("title")
		patch.Title = &v
	}
	if cmd.Flags().Changed("description") {
		v, _ := cmd.Flags().GetString("description")
		patch.Description = &v
	}
	if cmd.Flags().Changed("status") {
		v, _ := cmd.Flags().GetString("status")
		status, err := task.ParseStatus(v)
		if err != nil {
			return task.Patch{}, err
		}
		patch.Status = &status
	}
	if cmd.Flags().Changed("priority") {
		v, _ := cmd.Flags().GetString("priority")
		priority, err := task.ParsePriority(v)
		if err != nil {
			return task.Patch{}, err
		}
		patch.Priority = &priority
	}
	if cmd.Flags().Changed("category") {
		v, _ := cmd.Flags().GetString("category")
		patch.Category = &v
	}
	if cmd.Flags().Changed("due") {
		v, _ := cmd.Flags().GetString("due")
		d, err := date.Parse(v)
		if err != nil {
			return task.Patch{}, task.ErrInvalidDate(v, err)
		}
		patch.DueDate = &d
	}
	if v, _ := cmd.Flags().GetBool("clear-due"); v {
		patch.ClearDue = true
	}

	tags, err := resolveTagFlags(cmd, st, id)
	if err != nil {
		return task.Patch{}, err
	}
	patch.Tags = tags

	return patch, nil
}

// taskGetter is the slice of the store that tag math needs.
type taskGetter interface {
	Get(id string) (*task.Task, bool)
}

// resolveTagFlags computes the new tag list from --tags, --add-tag, and
// --remove-tag. Returns nil when no tag flag was passed.
func resolveTagFlags(cmd *cobra.Command, st taskGetter, id string) (*[]string, error) {
	replace, _ := cmd.Flags().GetStringSlice("tags")
	add, _ := cmd.Flags().GetStringSlice("add-tag")
	remove, _ := cmd.Flags().GetStringSlice("remove-tag")

	replaceSet := cmd.Flags().Changed("tags")
	if replaceSet && (len(add) > 0 || len(remove) > 0) {
		return nil, clierr.New(clierr.InvalidInput,
			"--tags cannot be combined with --add-tag or --remove-tag")
	}

	if replaceSet {
		tags := task.NormalizeTags(replace)
		return &tags, nil
	}
	if len(add) == 0 && len(remove) == 0 {
		return nil, nil
	}

	current, ok := st.Get(id)
	if !ok {
		return nil, clierr.Newf(clierr.TaskNotFound, "task %q not found", id)
	}

	tags := append(append([]string{}, current.Tags...), add...)
	tags = task.NormalizeTags(tags)

	if len(remove) > 0 {
		drop := make(map[string]bool, len(remove))
		for _, r := range task.NormalizeTags(remove) {
			drop[r] = true
		}
		kept := tags[:0]
		for _, tag := range tags {
			if !drop[tag] {
				kept = append(kept, tag)
			}
		}
		tags = kept
	}

	return &tags, nil
}
