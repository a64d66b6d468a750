package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nonce-firewall/taskflow/internal/config"
	"github.com/nonce-firewall/taskflow/internal/output"
	"github.com/nonce-firewall/taskflow/internal/stats"
	"github.com/nonce-firewall/taskflow/internal/watcher"
)

var statsCmd = &cobra.Command{
	Use:     "stats",
	Aliases: []string{"summary"},
	Short:   "Show task statistics",
	Long: `Shows a summary of the task collection: totals per status, overdue
count, open urgent count, and the completion rate.

With --watch the summary re-renders whenever the data changes.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().BoolP("watch", "w", false, "re-render when the data changes")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	watch, _ := cmd.Flags().GetBool("watch")
	if watch {
		return watchStats(cfg)
	}
	return renderStats(cfg)
}

func renderStats(cfg *config.Config) error {
	st, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	summary := stats.Compute(st.Tasks(), time.Now())

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, summary)
	case output.FormatCompact:
		output.SummaryCompact(os.Stdout, summary)
	default:
		output.SummaryTable(os.Stdout, summary)
	}
	return nil
}

// watchStats re-renders the summary whenever the data directory changes.
// Runs until interrupted.
func watchStats(cfg *config.Config) error {
	if err := renderStats(cfg); err != nil {
		return err
	}

	render := func() {
		// Clear screen before re-render.
		fmt.Print("\033[2J\033[H")
		if err := renderStats(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}

	w, err := watcher.New([]string{cfg.Dir()}, render)
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w.Run(ctx, func(err error) {
		fmt.Fprintf(os.Stderr, "Watch error: %v\n", err)
	})
	return nil
}
