package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nonce-firewall/taskflow/internal/stats"
	"github.com/nonce-firewall/taskflow/internal/task"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	statusStyles = map[string]lipgloss.Style{
		string(task.StatusTodo):       lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		string(task.StatusInProgress): lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		string(task.StatusCompleted):  lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	}

	priorityStyles = map[string]lipgloss.Style{
		string(task.PriorityUrgent): lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		string(task.PriorityHigh):   lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		string(task.PriorityMedium): lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		string(task.PriorityLow):    lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
	}

	tagStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// shortIDLen is how many characters of a task ID the table shows. Commands
// accept any unique prefix, so the short form is always usable as input.
const shortIDLen = 8

// ShortID returns the display form of a task ID.
func ShortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

// TaskTable renders a list of tasks as a formatted table.
func TaskTable(w io.Writer, tasks []*task.Task, now time.Time) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	// Calculate column widths.
	const pad = 2
	statusW, prioW, titleW, catW, tagsW := 8, 10, 5, 10, 6
	for _, t := range tasks {
		statusW = max(statusW, len(t.Status)+pad)
		prioW = max(prioW, len(t.Priority)+pad)
		titleW = max(titleW, min(len(t.Title)+pad, 50)) //nolint:mnd // max title column width
		catW = max(catW, min(len(t.Category)+pad, 20))  //nolint:mnd // max category column width
		tagsW = max(tagsW, min(len(strings.Join(t.Tags, ","))+pad, 30)) //nolint:mnd // max tags column width
	}

	// Print header.
	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %-*s %-*s %s",
		shortIDLen+pad, "ID", statusW, "STATUS", prioW, "PRIORITY",
		titleW, "TITLE", catW, "CATEGORY", tagsW, "TAGS", "DUE")
	fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(header, " ")))

	// Print rows.
	for _, t := range tasks {
		title := t.Title
		const maxTitle = 48
		if len(title) > maxTitle {
			title = title[:maxTitle-3] + "..."
		}
		category := t.Category
		if category == "" {
			category = dimStyle.Render("--")
		}
		tags := strings.Join(t.Tags, ",")
		if tags == "" {
			tags = dimStyle.Render("--")
		} else {
			tags = tagStyle.Render(tags)
		}
		due := dimStyle.Render("--")
		if t.DueDate != nil {
			due = t.DueDate.String()
			if t.Overdue(now) {
				due = overdueStyle.Render(due + " !")
			}
		}

		row := fmt.Sprintf("%-*s %s %s %s %s %s %s",
			shortIDLen+pad, ShortID(t.ID),
			padRight(styledValue(string(t.Status), statusStyles), statusW),
			padRight(styledValue(string(t.Priority), priorityStyles), prioW),
			padRight(title, titleW),
			padRight(category, catW),
			padRight(tags, tagsW),
			due)
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// TaskDetail renders a single task with full detail. The description is
// printed below the field block; callers may pre-render it as markdown.
func TaskDetail(w io.Writer, t *task.Task, now time.Time, description string) {
	titleLine := fmt.Sprintf("Task %s: %s", ShortID(t.ID), t.Title)
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(titleLine))
	fmt.Fprintln(w, strings.Repeat("─", len(titleLine)))

	printField(w, "ID", t.ID)
	printField(w, "Status", styledValue(string(t.Status), statusStyles))
	printField(w, "Priority", styledValue(string(t.Priority), priorityStyles))
	printField(w, "Category", stringOrDash(t.Category))
	if len(t.Tags) > 0 {
		printField(w, "Tags", tagStyle.Render(strings.Join(t.Tags, ", ")))
	} else {
		printField(w, "Tags", dimStyle.Render("--"))
	}
	if t.DueDate != nil {
		due := t.DueDate.String()
		if t.Overdue(now) {
			due += " " + overdueStyle.Render("(overdue)")
		}
		printField(w, "Due", due)
	} else {
		printField(w, "Due", dimStyle.Render("--"))
	}
	printField(w, "Created", t.CreatedAt.Format("2006-01-02 15:04"))

	if description == "" {
		description = t.Description
	}
	if description != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, description)
	}
}

// SummaryTable renders the statistics dashboard.
func SummaryTable(w io.Writer, s stats.Summary) {
	fmt.Fprintf(w, "Total: %d tasks\n\n", s.Total)

	header := fmt.Sprintf("%-16s %6s", "STATUS", "COUNT")
	fmt.Fprintln(w, headerStyle.Render(header))

	const statusColW = 16
	rows := []struct {
		label string
		count int
	}{
		{string(task.StatusTodo), s.Todo},
		{string(task.StatusInProgress), s.InProgress},
		{string(task.StatusCompleted), s.Completed},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%s %6d\n",
			padRight(styledValue(r.label, statusStyles), statusColW), r.count)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %6d\n", padRight("overdue", statusColW), s.Overdue)
	fmt.Fprintf(w, "%s %6d\n", padRight("urgent open", statusColW), s.UrgentOpen)
	fmt.Fprintf(w, "%s %5d%%\n", padRight("completion", statusColW), s.CompletionRate)
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format+"\n", args...)
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-12s %s\n", label+":", value)
}

// padRight pads s with spaces to the given visible width, accounting for ANSI
// escape codes that are invisible but consume bytes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

func stringOrDash(s string) string {
	if s == "" {
		return dimStyle.Render("--")
	}
	return s
}

// styledValue renders s using a matching style from the map, or returns s unchanged.
func styledValue(s string, styles map[string]lipgloss.Style) string {
	if st, ok := styles[s]; ok {
		return st.Render(s)
	}
	return s
}
