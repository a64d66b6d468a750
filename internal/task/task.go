// Package task defines the task record and its construction rules.
package task

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nonce-firewall/taskflow/internal/date"
)

// Status is the workflow state of a task.
type Status string

// Workflow states, in cyclic advance order.
const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Statuses returns all statuses in advance order.
func Statuses() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusCompleted}
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Next returns the status that follows s in the cyclic advance order
// todo -> in-progress -> completed -> todo.
func (s Status) Next() Status {
	switch s {
	case StatusTodo:
		return StatusInProgress
	case StatusInProgress:
		return StatusCompleted
	default:
		return StatusTodo
	}
}

// Priority is the severity level of a task.
type Priority string

// Priority levels, lowest to highest severity.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Priorities returns all priorities in ascending severity order.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Rank returns the severity rank: urgent(4) > high(3) > medium(2) > low(1).
// Unknown priorities rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Task represents a single trackable work item. JSON field names match the
// export/import file format.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	Category    string     `json:"category"`
	DueDate     *date.Date `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	Tags        []string   `json:"tags,omitempty"`
}

// Draft holds the user-supplied fields for a new task. ID and CreatedAt are
// assigned by New and nowhere else.
type Draft struct {
	Title       string
	Description string
	Status      Status
	Priority    Priority
	Category    string
	DueDate     *date.Date
	Tags        []string
}

// New validates and normalizes a draft and returns a fully-formed task.
// String fields are trimmed, missing status/priority fall back to their
// defaults, and tags are deduplicated preserving first-seen order.
func New(d Draft) (*Task, error) {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return nil, ErrEmptyTitle()
	}

	status := d.Status
	if status == "" {
		status = StatusTodo
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus(string(d.Status))
	}

	priority := d.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	if !priority.Valid() {
		return nil, ErrInvalidPriority(string(d.Priority))
	}

	return &Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(d.Description),
		Status:      status,
		Priority:    priority,
		Category:    strings.TrimSpace(d.Category),
		DueDate:     cloneDue(d.DueDate),
		CreatedAt:   time.Now(),
		Tags:        NormalizeTags(d.Tags),
	}, nil
}

// Patch describes a partial update. Nil fields are left untouched. ClearDue
// removes the due date; it cannot be combined with a new DueDate.
type Patch struct {
	Title       *string
	Description *string
	Status      *Status
	Priority    *Priority
	Category    *string
	DueDate     *date.Date
	ClearDue    bool
	Tags        *[]string
}

// Apply merges the patch into the task. All fields are validated before any
// of them is written, so a failed patch leaves the task unchanged.
func (t *Task) Apply(p Patch) error {
	var title string
	if p.Title != nil {
		title = strings.TrimSpace(*p.Title)
		if title == "" {
			return ErrEmptyTitle()
		}
	}
	if p.Status != nil && !p.Status.Valid() {
		return ErrInvalidStatus(string(*p.Status))
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return ErrInvalidPriority(string(*p.Priority))
	}
	if p.DueDate != nil && p.ClearDue {
		return ErrConflictingDue()
	}

	if p.Title != nil {
		t.Title = title
	}
	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Category != nil {
		t.Category = strings.TrimSpace(*p.Category)
	}
	if p.DueDate != nil {
		t.DueDate = cloneDue(p.DueDate)
	}
	if p.ClearDue {
		t.DueDate = nil
	}
	if p.Tags != nil {
		t.Tags = NormalizeTags(*p.Tags)
	}
	return nil
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil &&
		p.Priority == nil && p.Category == nil && p.DueDate == nil &&
		!p.ClearDue && p.Tags == nil
}

// Overdue reports whether the task has a due date in the past and is not
// completed. Derived, never stored.
func (t *Task) Overdue(now time.Time) bool {
	if t.DueDate == nil || t.Status == StatusCompleted {
		return false
	}
	return t.DueDate.Before(now)
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	c.DueDate = cloneDue(t.DueDate)
	if t.Tags != nil {
		c.Tags = append([]string(nil), t.Tags...)
	}
	return &c
}

// NormalizeTags trims tags, drops empties, and deduplicates preserving
// first-seen order.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		result = append(result, tag)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func cloneDue(d *date.Date) *date.Date {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}
