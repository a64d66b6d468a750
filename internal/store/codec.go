package store

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/nonce-firewall/taskflow/internal/clierr"
	"github.com/nonce-firewall/taskflow/internal/task"
)

// ImportWarning describes a batch element that was skipped during import.
type ImportWarning struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// ImportResult summarizes an import: how many records were appended and
// which were skipped.
type ImportResult struct {
	Added    int             `json:"added"`
	Warnings []ImportWarning `json:"warnings,omitempty"`
}

// ImportJSON parses a JSON array of task records and appends the well-formed
// ones to the collection. A non-array payload is rejected outright with
// nothing applied. Elements are validated individually: malformed records
// are skipped and reported, never imported half-parsed.
//
// Imported ids and creation timestamps are kept as the record of origin;
// records whose id is missing or collides with an existing task get a fresh
// id, and a missing createdAt becomes the import time.
func (s *Store) ImportJSON(raw []byte) (ImportResult, error) {
	// A top-level null unmarshals into a nil slice without error; an actual
	// empty array yields a non-nil one. Only the latter is a valid payload.
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil || elems == nil {
		return ImportResult{}, clierr.New(clierr.InvalidImport,
			"import file must contain a JSON array of tasks")
	}

	seen := make(map[string]bool, len(s.tasks))
	for _, t := range s.tasks {
		seen[t.ID] = true
	}

	var result ImportResult
	var imported []*task.Task
	now := time.Now()

	for i, elem := range elems {
		t, err := decodeImportRecord(elem)
		if err != nil {
			result.Warnings = append(result.Warnings, ImportWarning{Index: i, Reason: err.Error()})
			continue
		}
		if t.ID == "" || seen[t.ID] {
			t.ID = uuid.NewString()
		}
		if t.CreatedAt.IsZero() {
			t.CreatedAt = now
		}
		seen[t.ID] = true
		imported = append(imported, t)
	}

	if len(imported) == 0 {
		return result, nil
	}

	s.tasks = append(s.tasks, imported...)
	result.Added = len(imported)
	return result, s.save()
}

// decodeImportRecord parses and validates a single batch element into a
// normalized task. Validation mirrors task.New except that id and createdAt
// from the record are preserved.
func decodeImportRecord(raw json.RawMessage) (*task.Task, error) {
	var rec task.Task
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}

	t, err := task.New(task.Draft{
		Title:       rec.Title,
		Description: rec.Description,
		Status:      rec.Status,
		Priority:    rec.Priority,
		Category:    rec.Category,
		DueDate:     rec.DueDate,
		Tags:        rec.Tags,
	})
	if err != nil {
		return nil, err
	}

	t.ID = rec.ID
	t.CreatedAt = rec.CreatedAt
	return t, nil
}

// ExportJSON renders the full collection as a pretty-printed JSON array,
// the same shape ImportJSON accepts.
func (s *Store) ExportJSON() ([]byte, error) {
	tasks := s.tasks
	if tasks == nil {
		tasks = []*task.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return nil, clierr.Newf(clierr.InternalError, "encoding export: %v", err)
	}
	return data, nil
}

// ExportFilename returns the conventional download name for an export
// taken at the given time: tasks-YYYY-MM-DD.json.
func ExportFilename(now time.Time) string {
	return "tasks-" + now.Format("2006-01-02") + ".json"
}
