// Package store owns the authoritative in-memory task collection and keeps
// it in lockstep with the persisted copy.
package store

import (
	"fmt"

	"github.com/nonce-firewall/taskflow/internal/clierr"
	"github.com/nonce-firewall/taskflow/internal/task"
)

// Persister is the persistence contract the store writes through.
type Persister interface {
	Load() []*task.Task
	Save([]*task.Task) error
}

// PersistError wraps a persistence write failure that happened after the
// in-memory mutation already succeeded. Callers should surface it as a
// warning rather than treat the operation as failed.
type PersistError struct {
	Err error
}

// Error implements the error interface.
func (e *PersistError) Error() string {
	return fmt.Sprintf("saving collection: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *PersistError) Unwrap() error { return e.Err }

// Store holds the task collection, newest-created-first.
type Store struct {
	tasks     []*task.Task
	persister Persister
}

// Open hydrates a store from the persister. A missing or unreadable
// persisted collection yields an empty store.
func Open(p Persister) *Store {
	return &Store{tasks: p.Load(), persister: p}
}

// Len returns the number of tasks in the collection.
func (s *Store) Len() int { return len(s.tasks) }

// Tasks returns a snapshot of the collection in its stored order. The
// returned tasks are deep copies; mutating them does not touch the store.
func (s *Store) Tasks() []*task.Task {
	snapshot := make([]*task.Task, len(s.tasks))
	for i, t := range s.tasks {
		snapshot[i] = t.Clone()
	}
	return snapshot
}

// ExportAll is the read-only export snapshot of the full collection. It has
// no persistence side effect.
func (s *Store) ExportAll() []*task.Task {
	return s.Tasks()
}

// Get returns a copy of the task with the given id.
func (s *Store) Get(id string) (*task.Task, bool) {
	for _, t := range s.tasks {
		if t.ID == id {
			return t.Clone(), true
		}
	}
	return nil, false
}

// Create validates the draft, prepends the new task, and writes through.
// Validation failures leave the collection and the persisted copy untouched.
func (s *Store) Create(d task.Draft) (*task.Task, error) {
	t, err := task.New(d)
	if err != nil {
		return nil, err
	}
	s.tasks = append([]*task.Task{t}, s.tasks...)
	return t.Clone(), s.save()
}

// Update merges the patch into the matching task. Unknown ids are a no-op
// with found=false; validation failures abort before any field changes.
func (s *Store) Update(id string, p task.Patch) (*task.Task, bool, error) {
	for _, t := range s.tasks {
		if t.ID != id {
			continue
		}
		if err := t.Apply(p); err != nil {
			return nil, true, err
		}
		return t.Clone(), true, s.save()
	}
	return nil, false, nil
}

// Delete removes the matching task permanently. Unknown ids are a no-op.
func (s *Store) Delete(id string) (bool, error) {
	for i, t := range s.tasks {
		if t.ID != id {
			continue
		}
		s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
		return true, s.save()
	}
	return false, nil
}

// AdvanceStatus cycles the task's status one step along
// todo -> in-progress -> completed -> todo.
func (s *Store) AdvanceStatus(id string) (*task.Task, bool, error) {
	for _, t := range s.tasks {
		if t.ID != id {
			continue
		}
		t.Status = t.Status.Next()
		return t.Clone(), true, s.save()
	}
	return nil, false, nil
}

// Categories returns the distinct non-empty categories in collection order.
func (s *Store) Categories() []string {
	seen := make(map[string]bool)
	var categories []string
	for _, t := range s.tasks {
		if t.Category == "" || seen[t.Category] {
			continue
		}
		seen[t.Category] = true
		categories = append(categories, t.Category)
	}
	return categories
}

// ResolveID resolves a full id or a unique id prefix to a task id.
func (s *Store) ResolveID(arg string) (string, error) {
	if arg == "" {
		return "", clierr.New(clierr.InvalidInput, "task ID is required")
	}

	var matches []string
	for _, t := range s.tasks {
		if t.ID == arg {
			return t.ID, nil
		}
		if len(arg) < len(t.ID) && t.ID[:len(arg)] == arg {
			matches = append(matches, t.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", clierr.Newf(clierr.TaskNotFound, "task not found: %s", arg).
			WithDetails(map[string]any{"id": arg})
	case 1:
		return matches[0], nil
	default:
		return "", clierr.Newf(clierr.AmbiguousID, "ID prefix %q matches %d tasks", arg, len(matches)).
			WithDetails(map[string]any{"prefix": arg, "matches": matches})
	}
}

// save writes the collection through to the persister. The in-memory state
// is already mutated at this point; failures come back as *PersistError.
func (s *Store) save() error {
	if err := s.persister.Save(s.tasks); err != nil {
		return &PersistError{Err: err}
	}
	return nil
}
