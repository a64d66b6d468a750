package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/nonce-firewall/taskflow/internal/stats"
	"github.com/nonce-firewall/taskflow/internal/task"
)

// TaskCompact renders a list of tasks in one-line-per-record compact format.
func TaskCompact(w io.Writer, tasks []*task.Task, now time.Time) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	for _, t := range tasks {
		fmt.Fprintln(w, formatTaskLine(t, now))
	}
}

// TaskDetailCompact renders a single task with detail in compact format.
func TaskDetailCompact(w io.Writer, t *task.Task, now time.Time) {
	fmt.Fprintln(w, formatTaskLine(t, now))
	fmt.Fprintln(w, "  id:"+t.ID+" created:"+t.CreatedAt.Format("2006-01-02"))

	if t.Description != "" {
		for _, line := range strings.Split(t.Description, "\n") {
			fmt.Fprintln(w, "  "+line)
		}
	}
}

// SummaryCompact renders the statistics dashboard in compact format.
func SummaryCompact(w io.Writer, s stats.Summary) {
	fmt.Fprintf(w, "%d tasks (%d%% complete)\n", s.Total, s.CompletionRate)
	fmt.Fprintln(w, "  todo: "+strconv.Itoa(s.Todo)+
		" in-progress: "+strconv.Itoa(s.InProgress)+
		" completed: "+strconv.Itoa(s.Completed))

	var annotations []string
	if s.Overdue > 0 {
		annotations = append(annotations, strconv.Itoa(s.Overdue)+" overdue")
	}
	if s.UrgentOpen > 0 {
		annotations = append(annotations, strconv.Itoa(s.UrgentOpen)+" urgent open")
	}
	if len(annotations) > 0 {
		fmt.Fprintln(w, "  ("+strings.Join(annotations, ", ")+")")
	}
}

// formatTaskLine builds the one-line representation of a task.
func formatTaskLine(t *task.Task, now time.Time) string {
	line := ShortID(t.ID) + " [" + string(t.Status) + "/" + string(t.Priority) + "] " + t.Title

	if t.Category != "" {
		line += " ~" + t.Category
	}
	if len(t.Tags) > 0 {
		line += " (" + strings.Join(t.Tags, ", ") + ")"
	}
	if t.DueDate != nil {
		line += " due:" + t.DueDate.String()
		if t.Overdue(now) {
			line += "!"
		}
	}

	return line
}
