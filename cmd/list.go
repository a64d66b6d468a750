package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nonce-firewall/taskflow/internal/output"
	"github.com/nonce-firewall/taskflow/internal/query"
	"github.com/nonce-firewall/taskflow/internal/task"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks with optional filters",
	Long: `Lists tasks, optionally filtered by status, priority, category, or a
free-text search, and sorted by one of: created, dueDate, priority, title.

Filter values accept "all" to mean no filtering on that field.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().String("status", "", "filter by status (todo|in-progress|completed|all)")
	listCmd.Flags().String("priority", "", "filter by priority (low|medium|high|urgent|all)")
	listCmd.Flags().String("category", "", "filter by category")
	listCmd.Flags().StringP("search", "s", "", "search in title, description, and category")
	listCmd.Flags().String("sort", "", "sort by: created|dueDate|priority|title (default created)")
	listCmd.Flags().BoolP("reverse", "r", false, "reverse the sort order")
	listCmd.Flags().IntP("limit", "n", 0, "limit the number of results (0 = no limit)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	opts, err := buildQueryOptions(cmd)
	if err != nil {
		return err
	}

	tasks := query.Apply(st.Tasks(), opts)
	now := time.Now()

	switch outputFormat() {
	case output.FormatJSON:
		if tasks == nil {
			tasks = []*task.Task{}
		}
		return output.JSON(os.Stdout, tasks)
	case output.FormatCompact:
		output.TaskCompact(os.Stdout, tasks, now)
	default:
		output.TaskTable(os.Stdout, tasks, now)
	}
	return nil
}

// buildQueryOptions translates list flags into typed query options.
// The literal value "all" means no filter, matching the zero value.
func buildQueryOptions(cmd *cobra.Command) (query.Options, error) {
	var opts query.Options

	if v, _ := cmd.Flags().GetString("status"); v != "" && v != "all" {
		status, err := task.ParseStatus(v)
		if err != nil {
			return query.Options{}, err
		}
		opts.Status = status
	}
	if v, _ := cmd.Flags().GetString("priority"); v != "" && v != "all" {
		priority, err := task.ParsePriority(v)
		if err != nil {
			return query.Options{}, err
		}
		opts.Priority = priority
	}
	if v, _ := cmd.Flags().GetString("category"); v != "" && v != "all" {
		opts.Category = v
	}
	opts.Search, _ = cmd.Flags().GetString("search")

	sortFlag, _ := cmd.Flags().GetString("sort")
	key, err := query.ParseSortKey(sortFlag)
	if err != nil {
		return query.Options{}, err
	}
	opts.Sort = key

	opts.Reverse, _ = cmd.Flags().GetBool("reverse")
	opts.Limit, _ = cmd.Flags().GetInt("limit")

	return opts, nil
}
