package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nonce-firewall/taskflow/internal/task"
)

// --- Styles ---

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)

	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62"))

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	tagStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("36"))

	statusStyles = map[string]lipgloss.Style{
		string(task.StatusTodo):       lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
		string(task.StatusInProgress): lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		string(task.StatusCompleted):  lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
	}

	priorityStyles = map[string]lipgloss.Style{
		string(task.PriorityLow):    dimStyle,
		string(task.PriorityMedium): lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		string(task.PriorityHigh):   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		string(task.PriorityUrgent): lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}

	dialogPadY = 1
	dialogPadX = 2

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(dialogPadY, dialogPadX)
)

func statusStyle(s task.Status) lipgloss.Style {
	if st, ok := statusStyles[string(s)]; ok {
		return st
	}
	return dimStyle
}

func priorityStyle(p task.Priority) lipgloss.Style {
	if st, ok := priorityStyles[string(p)]; ok {
		return st
	}
	return dimStyle
}

// --- View rendering ---

func (m *Model) viewList() string {
	var parts []string

	if m.view == viewSearch {
		parts = append(parts, m.search.View())
	}
	parts = append(parts, headerStyle.Width(m.width).Render(truncate(m.filterLine(), m.width-2)))

	budget := m.height - m.chromeHeight()
	maxVis := m.visibleRows()
	end := m.scrollOff + maxVis
	if end > len(m.visible) {
		end = len(m.visible)
	}

	if len(m.visible) == 0 {
		parts = append(parts, dimStyle.Render("  no tasks match"))
	}

	used := 0
	for i := m.scrollOff; i < end; i++ {
		t := m.visible[i]
		parts = append(parts, m.renderRow(t, i == m.cursor))
		used += m.rowHeight(t)
	}

	// Pad the row area to a stable height so the status bar stays put.
	for used < budget {
		parts = append(parts, "")
		used++
	}

	parts = append(parts, "", m.renderStatusBar())

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// filterLine summarizes the active view options.
func (m *Model) filterLine() string {
	segs := []string{
		"status:" + orAll(string(m.opts.Status)),
		"priority:" + orAll(string(m.opts.Priority)),
		"category:" + orAll(m.opts.Category),
		"sort:" + string(sortLabel(m)),
	}
	if m.opts.Reverse {
		segs = append(segs, "reversed")
	}
	if m.opts.Search != "" {
		segs = append(segs, fmt.Sprintf("search:%q", m.opts.Search))
	}
	return strings.Join(segs, "  ")
}

func orAll(s string) string {
	if s == "" {
		return "all"
	}
	return s
}

func sortLabel(m *Model) string {
	if m.opts.Sort == "" {
		return "created"
	}
	return string(m.opts.Sort)
}

func (m *Model) renderRow(t *task.Task, active bool) string {
	now := m.now()

	marker := "  "
	if active {
		marker = cursorStyle.Render("> ")
	}

	status := statusStyle(t.Status).Render(fmt.Sprintf("%-11s", t.Status))
	prio := priorityStyle(t.Priority).Render(fmt.Sprintf("%-6s", t.Priority))

	suffix := ""
	if t.DueDate != nil {
		due := " due:" + t.DueDate.String()
		if t.Overdue(now) {
			due = overdueStyle.Render(due + "!")
		} else {
			due = dimStyle.Render(due)
		}
		suffix += due
	}
	if len(t.Tags) > 0 {
		suffix += " " + tagStyle.Render("("+strings.Join(t.Tags, ",")+")")
	}
	if t.Category != "" {
		suffix += " " + dimStyle.Render("~"+t.Category)
	}

	titleWidth := m.width - 2 - 11 - 1 - 6 - 1 - lipgloss.Width(suffix)
	if titleWidth < 8 {
		titleWidth = 8
	}
	title := truncate(t.Title, titleWidth)
	if active {
		title = cursorStyle.Render(title)
	}

	line := marker + status + " " + prio + " " + title + suffix
	lines := []string{line}

	if t.Description != "" && m.cfg.TUI.DescriptionLines > 0 {
		for _, l := range wrapText(t.Description, m.textWidth(), m.cfg.TUI.DescriptionLines) {
			lines = append(lines, "    "+dimStyle.Render(l))
		}
	}

	return strings.Join(lines, "\n")
}

func (m *Model) renderStatusBar() string {
	s := m.summary
	status := fmt.Sprintf(" %d/%d tasks | %d todo %d active %d done | %d overdue | %d%% complete | /:search s/p/c:filter o:sort spc:advance d:del q:quit",
		len(m.visible), s.Total, s.Todo, s.InProgress, s.Completed, s.Overdue, s.CompletionRate)
	status = truncate(status, m.width)

	if m.err != nil {
		errStr := errorStyle.Render(truncate("Error: "+m.err.Error(), m.width))
		return errStr + "\n" + statusBarStyle.Render(status)
	}

	return statusBarStyle.Render(status)
}

func (m *Model) viewDetail() string {
	t := m.selectedTask()
	if t == nil {
		m.view = viewList
		return m.viewList()
	}
	now := m.now()

	var b strings.Builder
	b.WriteString(headerStyle.Render(truncate(t.Title, m.width-2)) + "\n\n")

	field := func(label, value string) {
		b.WriteString(fmt.Sprintf("  %-10s %s\n", label+":", value))
	}

	field("ID", t.ID)
	field("Status", statusStyle(t.Status).Render(string(t.Status)))
	field("Priority", priorityStyle(t.Priority).Render(string(t.Priority)))
	if t.Category != "" {
		field("Category", t.Category)
	}
	if len(t.Tags) > 0 {
		field("Tags", tagStyle.Render(strings.Join(t.Tags, ", ")))
	}
	if t.DueDate != nil {
		due := t.DueDate.String()
		if t.Overdue(now) {
			due += " " + overdueStyle.Render("(overdue)")
		}
		field("Due", due)
	}
	field("Created", t.CreatedAt.Format("2006-01-02 15:04"))

	if t.Description != "" {
		b.WriteString("\n")
		for _, l := range wrapText(t.Description, m.width-4, 0) {
			b.WriteString("  " + l + "\n")
		}
	}

	b.WriteString("\n" + dimStyle.Render("  esc:back  spc:advance  d:delete"))

	return b.String()
}

func (m *Model) viewDeleteConfirm() string {
	content := errorStyle.Render("Delete task?") + "\n\n" +
		fmt.Sprintf("  %s", truncate(m.deleteTitle, m.width-8)) + "\n\n" +
		dimStyle.Render("y:yes  n:no")

	return dialogStyle.Render(content)
}

// wrapText word-wraps text to maxWidth, returning at most maxLines lines.
// maxLines 0 means unlimited. The last line is truncated when lines are
// dropped.
func wrapText(text string, maxWidth, maxLines int) []string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return nil
	}
	if lipgloss.Width(text) <= maxWidth {
		return []string{text}
	}

	words := strings.Fields(text)
	var lines []string
	var current strings.Builder

	for _, word := range words {
		if current.Len() == 0 {
			current.WriteString(word)
			continue
		}
		if lipgloss.Width(current.String())+1+lipgloss.Width(word) <= maxWidth {
			current.WriteByte(' ')
			current.WriteString(word)
		} else {
			lines = append(lines, current.String())
			current.Reset()
			current.WriteString(word)
			if maxLines > 0 && len(lines) == maxLines-1 {
				current.WriteString(" ...")
				break
			}
		}
	}
	if current.Len() > 0 {
		lines = append(lines, truncate(current.String(), maxWidth))
	}
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines
}

func truncate(s string, maxLen int) string {
	if maxLen < 4 {
		maxLen = 4
	}
	if lipgloss.Width(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	target := maxLen - 3
	if target > len(runes) {
		target = len(runes)
	}
	for target > 0 && lipgloss.Width(string(runes[:target])) > maxLen-3 {
		target--
	}
	return string(runes[:target]) + "..."
}
