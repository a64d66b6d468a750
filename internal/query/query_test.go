package query

import (
	"testing"
	"time"

	"github.com/nonce-firewall/taskflow/internal/date"
	"github.com/nonce-firewall/taskflow/internal/task"
)

// mk builds a test task with a deterministic creation time derived from seq
// so created-order assertions are stable.
func mk(seq int, title string, mod func(*task.Task)) *task.Task {
	t := &task.Task{
		ID:        title,
		Title:     title,
		Status:    task.StatusTodo,
		Priority:  task.PriorityMedium,
		CreatedAt: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(seq) * time.Hour),
	}
	if mod != nil {
		mod(t)
	}
	return t
}

func titles(tasks []*task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func assertOrder(t *testing.T, got []*task.Task, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", titles(got), want)
	}
	for i, w := range want {
		if got[i].Title != w {
			t.Fatalf("got %v, want %v", titles(got), want)
		}
	}
}

func TestApplyNoOptionsReturnsAllNewestFirst(t *testing.T) {
	in := []*task.Task{
		mk(1, "a", nil),
		mk(3, "b", nil),
		mk(2, "c", nil),
	}
	got := Apply(in, Options{})
	assertOrder(t, got, "b", "c", "a")

	// Input order must be untouched.
	if in[0].Title != "a" || in[1].Title != "b" || in[2].Title != "c" {
		t.Errorf("input mutated: %v", titles(in))
	}
}

func TestApplyFiltersCombineWithAnd(t *testing.T) {
	in := []*task.Task{
		mk(1, "fix login bug", func(tk *task.Task) {
			tk.Status = task.StatusInProgress
			tk.Category = "work"
		}),
		mk(2, "fix logout bug", func(tk *task.Task) {
			tk.Status = task.StatusTodo
			tk.Category = "work"
		}),
		mk(3, "buy groceries", func(tk *task.Task) {
			tk.Status = task.StatusInProgress
			tk.Category = "home"
		}),
	}

	got := Apply(in, Options{Search: "fix", Status: task.StatusInProgress, Category: "work"})
	assertOrder(t, got, "fix login bug")
}

func TestApplySearchIsCaseInsensitive(t *testing.T) {
	in := []*task.Task{
		mk(1, "Write REPORT", nil),
		mk(2, "other", func(tk *task.Task) { tk.Description = "quarterly Report draft" }),
		mk(3, "misc", func(tk *task.Task) { tk.Category = "Reporting" }),
		mk(4, "unrelated", nil),
	}
	got := Apply(in, Options{Search: "report"})
	if len(got) != 3 {
		t.Fatalf("matched %v, want 3 tasks", titles(got))
	}
}

func TestApplyPriorityFilter(t *testing.T) {
	in := []*task.Task{
		mk(1, "a", func(tk *task.Task) { tk.Priority = task.PriorityUrgent }),
		mk(2, "b", nil),
	}
	got := Apply(in, Options{Priority: task.PriorityUrgent})
	assertOrder(t, got, "a")
}

func TestSortDueDateNilLast(t *testing.T) {
	d1 := date.New(2026, time.February, 1)
	d2 := date.New(2026, time.March, 1)
	in := []*task.Task{
		mk(1, "none-a", nil),
		mk(2, "late", func(tk *task.Task) { tk.DueDate = &d2 }),
		mk(3, "none-b", nil),
		mk(4, "soon", func(tk *task.Task) { tk.DueDate = &d1 }),
	}
	got := Apply(in, Options{Sort: SortDueDate})
	assertOrder(t, got, "soon", "late", "none-a", "none-b")
}

func TestSortPriorityDescending(t *testing.T) {
	in := []*task.Task{
		mk(1, "low", func(tk *task.Task) { tk.Priority = task.PriorityLow }),
		mk(2, "urgent", func(tk *task.Task) { tk.Priority = task.PriorityUrgent }),
		mk(3, "medium", nil),
		mk(4, "high", func(tk *task.Task) { tk.Priority = task.PriorityHigh }),
	}
	got := Apply(in, Options{Sort: SortPriority})
	assertOrder(t, got, "urgent", "high", "medium", "low")
}

func TestSortPriorityIsStable(t *testing.T) {
	in := []*task.Task{
		mk(1, "first", nil),
		mk(2, "second", nil),
		mk(3, "third", nil),
	}
	got := Apply(in, Options{Sort: SortPriority})
	assertOrder(t, got, "first", "second", "third")
}

func TestSortTitleAscending(t *testing.T) {
	in := []*task.Task{
		mk(1, "cherry", nil),
		mk(2, "apple", nil),
		mk(3, "banana", nil),
	}
	got := Apply(in, Options{Sort: SortTitle})
	assertOrder(t, got, "apple", "banana", "cherry")
}

func TestSortChangesOrderNotMembership(t *testing.T) {
	d := date.New(2026, time.May, 5)
	in := []*task.Task{
		mk(1, "a", func(tk *task.Task) { tk.DueDate = &d }),
		mk(2, "b", func(tk *task.Task) { tk.Priority = task.PriorityUrgent }),
		mk(3, "c", nil),
	}
	for _, key := range SortKeys() {
		got := Apply(in, Options{Sort: key})
		if len(got) != len(in) {
			t.Errorf("sort %s dropped tasks: %v", key, titles(got))
			continue
		}
		seen := make(map[string]bool)
		for _, tk := range got {
			seen[tk.Title] = true
		}
		for _, tk := range in {
			if !seen[tk.Title] {
				t.Errorf("sort %s lost %q", key, tk.Title)
			}
		}
	}
}

func TestReverseAppliesAfterSort(t *testing.T) {
	in := []*task.Task{
		mk(1, "apple", nil),
		mk(2, "banana", nil),
		mk(3, "cherry", nil),
	}
	got := Apply(in, Options{Sort: SortTitle, Reverse: true})
	assertOrder(t, got, "cherry", "banana", "apple")
}

func TestLimitAppliesLast(t *testing.T) {
	in := []*task.Task{
		mk(1, "apple", nil),
		mk(2, "banana", nil),
		mk(3, "cherry", nil),
	}
	got := Apply(in, Options{Sort: SortTitle, Reverse: true, Limit: 2})
	assertOrder(t, got, "cherry", "banana")

	got = Apply(in, Options{Limit: 0})
	if len(got) != 3 {
		t.Errorf("Limit 0 truncated to %d", len(got))
	}

	got = Apply(in, Options{Limit: 10})
	if len(got) != 3 {
		t.Errorf("Limit beyond len = %d results", len(got))
	}
}

func TestApplyIsDeterministic(t *testing.T) {
	in := []*task.Task{
		mk(1, "a", nil),
		mk(2, "b", func(tk *task.Task) { tk.Priority = task.PriorityHigh }),
		mk(3, "c", nil),
	}
	opts := Options{Sort: SortPriority}
	first := titles(Apply(in, opts))
	for range 5 {
		again := titles(Apply(in, opts))
		for i := range first {
			if first[i] != again[i] {
				t.Fatalf("order changed between runs: %v vs %v", first, again)
			}
		}
	}
}

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		in      string
		want    SortKey
		wantErr bool
	}{
		{"", SortCreated, false},
		{"created", SortCreated, false},
		{"dueDate", SortDueDate, false},
		{"priority", SortPriority, false},
		{"title", SortTitle, false},
		{"duedate", "", true},
		{"name", "", true},
	}
	for _, tt := range tests {
		got, err := ParseSortKey(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseSortKey(%q) succeeded, want error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseSortKey(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSortKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
