// Package query derives filtered, sorted views of the task collection.
package query

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/nonce-firewall/taskflow/internal/clierr"
	"github.com/nonce-firewall/taskflow/internal/task"
)

// SortKey selects the ordering of the derived view.
type SortKey string

// Valid sort keys.
const (
	SortCreated  SortKey = "created"
	SortDueDate  SortKey = "dueDate"
	SortPriority SortKey = "priority"
	SortTitle    SortKey = "title"
)

// SortKeys returns all valid sort keys.
func SortKeys() []SortKey {
	return []SortKey{SortCreated, SortDueDate, SortPriority, SortTitle}
}

// ParseSortKey validates raw sort input. Empty input means the default
// (created, newest first).
func ParseSortKey(s string) (SortKey, error) {
	if s == "" {
		return SortCreated, nil
	}
	key := SortKey(s)
	switch key {
	case SortCreated, SortDueDate, SortPriority, SortTitle:
		return key, nil
	}
	return "", clierr.Newf(clierr.InvalidSort, "invalid sort key %q", s).
		WithDetails(map[string]any{
			"sort":    s,
			"allowed": SortKeys(),
		})
}

// Options defines the view parameters. Zero-valued filters are wildcards;
// all active predicates combine with AND.
type Options struct {
	Search   string        // case-insensitive substring over title, description, category
	Status   task.Status   // "" = all
	Priority task.Priority // "" = all
	Category string        // "" = all
	Sort     SortKey       // "" = created
	Reverse  bool          // applied after sorting
	Limit    int           // 0 = unlimited, applied last
}

// Apply returns the ordered display sequence for the given collection and
// options. The input slice is never mutated; re-running with identical
// inputs yields an identical sequence.
func Apply(tasks []*task.Task, opts Options) []*task.Task {
	result := make([]*task.Task, 0, len(tasks))
	for _, t := range tasks {
		if matches(t, opts) {
			result = append(result, t)
		}
	}

	sortTasks(result, opts.Sort)

	if opts.Reverse {
		for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
			result[i], result[j] = result[j], result[i]
		}
	}
	if opts.Limit > 0 && len(result) > opts.Limit {
		result = result[:opts.Limit]
	}
	return result
}

func matches(t *task.Task, opts Options) bool {
	if opts.Search != "" && !matchesSearch(t, opts.Search) {
		return false
	}
	if opts.Status != "" && t.Status != opts.Status {
		return false
	}
	if opts.Priority != "" && t.Priority != opts.Priority {
		return false
	}
	if opts.Category != "" && t.Category != opts.Category {
		return false
	}
	return true
}

// matchesSearch performs case-insensitive substring matching across title,
// description, and category.
func matchesSearch(t *task.Task, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(t.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(t.Description), q) {
		return true
	}
	return strings.Contains(strings.ToLower(t.Category), q)
}

// sortTasks orders the slice in place. Every branch uses a stable sort so
// ties keep their relative input order.
func sortTasks(tasks []*task.Task, key SortKey) {
	switch key {
	case SortDueDate:
		// Ascending by due date; tasks without one sort after all dated
		// tasks, in their original relative order.
		sort.SliceStable(tasks, func(i, j int) bool {
			a, b := tasks[i].DueDate, tasks[j].DueDate
			if a == nil {
				return false
			}
			if b == nil {
				return true
			}
			return a.Before(b.Time)
		})
	case SortPriority:
		// Descending by severity rank.
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].Priority.Rank() > tasks[j].Priority.Rank()
		})
	case SortTitle:
		// Ascending, locale-aware comparison.
		c := collate.New(language.Und)
		sort.SliceStable(tasks, func(i, j int) bool {
			return c.CompareString(tasks[i].Title, tasks[j].Title) < 0
		})
	default:
		// created: descending by creation time, newest first.
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		})
	}
}
