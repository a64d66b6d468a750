// Package tui implements the interactive taskflow list.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nonce-firewall/taskflow/internal/config"
	"github.com/nonce-firewall/taskflow/internal/filelock"
	"github.com/nonce-firewall/taskflow/internal/query"
	"github.com/nonce-firewall/taskflow/internal/stats"
	"github.com/nonce-firewall/taskflow/internal/store"
	"github.com/nonce-firewall/taskflow/internal/task"
)

// view represents the current screen state.
type view int

const (
	viewList view = iota
	viewDetail
	viewSearch
	viewConfirmDelete
)

// Key and layout constants.
const (
	keyEsc = "esc"

	listChrome   = 3 // filter line + blank line + status bar
	errorChrome  = 1 // extra line when error toast is displayed
	searchChrome = 1 // search input replaces the filter line while active
)

// Model is the top-level bubbletea model.
type Model struct {
	cfg       *config.Config
	persister store.Persister
	store     *store.Store

	opts    query.Options
	visible []*task.Task
	summary stats.Summary

	cursor    int
	scrollOff int
	view      view
	width     int
	height    int
	err       error
	now       func() time.Time

	search textinput.Model

	// Filter cycle positions. Index 0 always means "all".
	statusIdx   int
	priorityIdx int
	categoryIdx int
	categories  []string
	sortIdx     int

	// Delete confirmation.
	deleteID    string
	deleteTitle string
}

// New creates a Model backed by the given persister. The store is hydrated
// immediately and re-hydrated on every ReloadMsg.
func New(cfg *config.Config, p store.Persister) *Model {
	ti := textinput.New()
	ti.Placeholder = "search"
	ti.Prompt = "/ "
	ti.CharLimit = 80

	m := &Model{
		cfg:       cfg,
		persister: p,
		now:       time.Now,
		search:    ti,
	}
	m.reload()
	return m
}

// SetNow overrides the clock used for overdue display (for testing).
func (m *Model) SetNow(fn func() time.Time) {
	m.now = fn
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case ReloadMsg:
		m.reload()
		return m, nil
	case errMsg:
		m.err = msg.err
		return m, nil
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	switch m.view {
	case viewDetail:
		return m.viewDetail()
	case viewConfirmDelete:
		return m.viewDeleteConfirm()
	default:
		return m.viewList()
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys.
	if key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+c"))) {
		return m, tea.Quit
	}

	switch m.view {
	case viewList:
		return m.handleListKey(msg)
	case viewSearch:
		return m.handleSearchKey(msg)
	case viewDetail:
		return m.handleDetailKey(msg)
	case viewConfirmDelete:
		return m.handleDeleteKey(msg)
	}

	return m, nil
}

func (m *Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", keyEsc:
		return m, tea.Quit
	case "j", "down":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
			m.ensureVisible()
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
			m.ensureVisible()
		}
	case "g", "home":
		m.cursor = 0
		m.ensureVisible()
	case "G", "end":
		if len(m.visible) > 0 {
			m.cursor = len(m.visible) - 1
			m.ensureVisible()
		}
	case "/":
		m.view = viewSearch
		m.search.Focus()
	case "s":
		m.cycleStatus()
	case "p":
		m.cyclePriority()
	case "c":
		m.cycleCategory()
	case "o":
		m.cycleSort()
	case "R":
		m.opts.Reverse = !m.opts.Reverse
		m.refresh()
	case "x":
		m.clearFilters()
	case " ":
		m.advanceSelected()
	case "d":
		m.handleDeleteStart()
	case "enter":
		if m.selectedTask() != nil {
			m.view = viewDetail
		}
	case "r":
		m.reload()
	}
	return m, nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.view = viewList
		m.search.Blur()
		return m, nil
	case keyEsc:
		m.search.SetValue("")
		m.search.Blur()
		m.opts.Search = ""
		m.view = viewList
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.opts.Search = m.search.Value()
	m.refresh()
	return m, cmd
}

func (m *Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", keyEsc, "enter":
		m.view = viewList
	case " ":
		m.advanceSelected()
	case "d":
		m.handleDeleteStart()
	}
	return m, nil
}

func (m *Model) handleDeleteStart() {
	if t := m.selectedTask(); t != nil {
		m.deleteID = t.ID
		m.deleteTitle = t.Title
		m.view = viewConfirmDelete
	}
}

func (m *Model) handleDeleteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		return m.executeDelete()
	case "n", "N", keyEsc, "q":
		m.view = viewList
	}
	return m, nil
}

func (m *Model) executeDelete() (tea.Model, tea.Cmd) {
	id, title := m.deleteID, m.deleteTitle
	err := m.mutate(func(s *store.Store) error {
		ok, err := s.Delete(id)
		if err == nil && ok {
			store.LogMutation(m.cfg.Dir(), "delete", id, title)
		}
		return err
	})
	if err != nil {
		m.err = fmt.Errorf("deleting task: %w", err)
	}
	m.view = viewList
	m.refresh()
	return m, nil
}

func (m *Model) advanceSelected() {
	t := m.selectedTask()
	if t == nil {
		return
	}
	id := t.ID
	err := m.mutate(func(s *store.Store) error {
		updated, ok, err := s.AdvanceStatus(id)
		if err == nil && ok {
			store.LogMutation(m.cfg.Dir(), "advance", updated.ID, string(updated.Status))
		}
		return err
	})
	if err != nil {
		m.err = fmt.Errorf("advancing task: %w", err)
		return
	}
	m.refresh()
}

// mutate runs fn against a freshly hydrated store while holding the same
// advisory lock the CLI mutators take, so a TUI write cannot clobber a
// concurrent process's changes.
func (m *Model) mutate(fn func(*store.Store) error) error {
	unlock, err := filelock.Lock(m.cfg.LockPath())
	if err != nil {
		return err
	}
	defer unlock() //nolint:errcheck

	m.store = store.Open(m.persister)
	return fn(m.store)
}

// reload re-hydrates the store from disk, picking up changes written by
// other processes.
func (m *Model) reload() {
	m.store = store.Open(m.persister)
	m.err = nil
	m.refresh()
}

// refresh recomputes the visible sequence and summary from the current
// store contents and view options.
func (m *Model) refresh() {
	all := m.store.Tasks()
	m.visible = query.Apply(all, m.opts)
	m.summary = stats.Compute(all, m.now())
	m.categories = m.store.Categories()
	m.clampCursor()
}

func (m *Model) cycleStatus() {
	statuses := task.Statuses()
	m.statusIdx = (m.statusIdx + 1) % (len(statuses) + 1)
	if m.statusIdx == 0 {
		m.opts.Status = ""
	} else {
		m.opts.Status = statuses[m.statusIdx-1]
	}
	m.refresh()
}

func (m *Model) cyclePriority() {
	priorities := task.Priorities()
	m.priorityIdx = (m.priorityIdx + 1) % (len(priorities) + 1)
	if m.priorityIdx == 0 {
		m.opts.Priority = ""
	} else {
		m.opts.Priority = priorities[m.priorityIdx-1]
	}
	m.refresh()
}

func (m *Model) cycleCategory() {
	if len(m.categories) == 0 {
		return
	}
	m.categoryIdx = (m.categoryIdx + 1) % (len(m.categories) + 1)
	if m.categoryIdx == 0 {
		m.opts.Category = ""
	} else {
		m.opts.Category = m.categories[m.categoryIdx-1]
	}
	m.refresh()
}

func (m *Model) cycleSort() {
	keys := query.SortKeys()
	m.sortIdx = (m.sortIdx + 1) % len(keys)
	m.opts.Sort = keys[m.sortIdx]
	m.refresh()
}

func (m *Model) clearFilters() {
	m.opts = query.Options{}
	m.statusIdx = 0
	m.priorityIdx = 0
	m.categoryIdx = 0
	m.sortIdx = 0
	m.search.SetValue("")
	m.refresh()
}

func (m *Model) selectedTask() *task.Task {
	if len(m.visible) == 0 {
		return nil
	}
	if m.cursor >= 0 && m.cursor < len(m.visible) {
		return m.visible[m.cursor]
	}
	return nil
}

func (m *Model) clampCursor() {
	if len(m.visible) == 0 {
		m.cursor = 0
		m.scrollOff = 0
		return
	}
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	m.ensureVisible()
}

// chromeHeight returns the number of lines consumed by non-row elements.
func (m *Model) chromeHeight() int {
	h := listChrome
	if m.view == viewSearch {
		h += searchChrome
	}
	if m.err != nil {
		h += errorChrome
	}
	return h
}

// rowHeight returns the number of screen lines one task row occupies:
// the main line plus up to tui.description_lines of wrapped description.
func (m *Model) rowHeight(t *task.Task) int {
	h := 1
	if t.Description != "" && m.cfg.TUI.DescriptionLines > 0 {
		lines := wrapText(t.Description, m.textWidth(), m.cfg.TUI.DescriptionLines)
		h += len(lines)
	}
	return h
}

// visibleRows returns how many rows fit in the window from scrollOff,
// accounting for the lines each row occupies.
func (m *Model) visibleRows() int {
	budget := m.height - m.chromeHeight()
	if budget < 1 {
		return 1
	}
	used := 0
	count := 0
	for i := m.scrollOff; i < len(m.visible); i++ {
		rh := m.rowHeight(m.visible[i])
		if count > 0 && used+rh > budget {
			break
		}
		count++
		used += rh
		if used >= budget {
			break
		}
	}
	if count < 1 {
		return 1
	}
	return count
}

// ensureVisible adjusts the scroll offset so the cursor row is on screen.
func (m *Model) ensureVisible() {
	for range len(m.visible) + 1 {
		maxVis := m.visibleRows()
		switch {
		case m.cursor >= m.scrollOff+maxVis:
			m.scrollOff = m.cursor - maxVis + 1
		case m.cursor < m.scrollOff:
			m.scrollOff = m.cursor
		default:
			return
		}
	}
}

func (m *Model) textWidth() int {
	const indent = 4
	w := m.width - indent
	if w < 10 {
		w = 10
	}
	return w
}

// WatchPaths returns the paths that should be watched for file changes.
func (m *Model) WatchPaths() []string {
	return []string{m.cfg.Dir()}
}

// --- Messages ---

// ReloadMsg is sent by the file watcher to trigger a list refresh.
type ReloadMsg struct{}

type errMsg struct{ err error }
