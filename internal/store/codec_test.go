package store

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nonce-firewall/taskflow/internal/clierr"
)

func TestImportJSONRejectsNonArray(t *testing.T) {
	s, _ := newTestStore(t)
	mustCreate(t, s, "existing")

	for _, payload := range []string{`{}`, `"tasks"`, `42`, `null`, ` null `, `not json`} {
		_, err := s.ImportJSON([]byte(payload))
		var cliErr *clierr.Error
		if !errors.As(err, &cliErr) || cliErr.Code != clierr.InvalidImport {
			t.Errorf("ImportJSON(%s) err = %v, want %s", payload, err, clierr.InvalidImport)
		}
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d after rejected imports, want 1", s.Len())
	}
}

func TestImportJSONSkipsInvalidElements(t *testing.T) {
	s, _ := newTestStore(t)
	mustCreate(t, s, "existing")

	payload := `[
		{"title": "good one", "status": "in-progress", "priority": "high"},
		{"title": "", "status": "todo"},
		{"title": "bad status", "status": "done"},
		{"title": "good two"}
	]`

	result, err := s.ImportJSON([]byte(payload))
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if result.Added != 2 {
		t.Errorf("Added = %d, want 2", result.Added)
	}
	if len(result.Warnings) != 2 {
		t.Fatalf("Warnings = %v, want 2", result.Warnings)
	}
	if result.Warnings[0].Index != 1 || result.Warnings[1].Index != 2 {
		t.Errorf("warning indexes = %d, %d, want 1, 2",
			result.Warnings[0].Index, result.Warnings[1].Index)
	}
	if s.Len() != 3 {
		t.Errorf("Len = %d, want existing + 2 imported", s.Len())
	}
}

func TestImportJSONAssignsFreshIDOnCollision(t *testing.T) {
	s, _ := newTestStore(t)
	existing := mustCreate(t, s, "existing")

	payload := `[
		{"id": "` + existing.ID + `", "title": "duplicate id"},
		{"title": "no id"}
	]`
	result, err := s.ImportJSON([]byte(payload))
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if result.Added != 2 {
		t.Fatalf("Added = %d", result.Added)
	}

	seen := make(map[string]int)
	for _, tk := range s.Tasks() {
		seen[tk.ID]++
		if tk.ID == "" {
			t.Error("imported task has empty id")
		}
	}
	for id, n := range seen {
		if n > 1 {
			t.Errorf("id %q appears %d times", id, n)
		}
	}
}

func TestImportJSONPreservesCreatedAt(t *testing.T) {
	s, _ := newTestStore(t)

	payload := `[{"title": "old task", "createdAt": "2020-06-01T10:00:00Z"}]`
	if _, err := s.ImportJSON([]byte(payload)); err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}

	got := s.Tasks()[0]
	want := time.Date(2020, time.June, 1, 10, 0, 0, 0, time.UTC)
	if !got.CreatedAt.Equal(want) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, want)
	}
}

func TestImportJSONEmptyArray(t *testing.T) {
	s, p := newTestStore(t)
	saves := p.saves

	result, err := s.ImportJSON([]byte(`[]`))
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if result.Added != 0 || len(result.Warnings) != 0 {
		t.Errorf("result = %+v, want empty", result)
	}
	if p.saves != saves {
		t.Error("empty import triggered a save")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	mustCreate(t, s, "alpha")
	mustCreate(t, s, "beta")

	data, err := s.ExportJSON()
	if err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	fresh, _ := newTestStore(t)
	result, err := fresh.ImportJSON(data)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if result.Added != 2 || len(result.Warnings) != 0 {
		t.Fatalf("round trip result = %+v", result)
	}
}

func TestExportJSONEmptyCollection(t *testing.T) {
	s, _ := newTestStore(t)
	data, err := s.ExportJSON()
	if err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("empty export = %s, want []", data)
	}
}

func TestExportJSONOmitsEmptyOptionalFields(t *testing.T) {
	s, _ := newTestStore(t)
	mustCreate(t, s, "bare")

	data, err := s.ExportJSON()
	if err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("export is not a JSON array: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d", len(records))
	}
	if _, ok := records[0]["dueDate"]; ok {
		t.Error("dueDate present for task without one")
	}
	if _, ok := records[0]["tags"]; ok {
		t.Error("tags present for task without any")
	}
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2026, time.September, 1, 23, 59, 0, 0, time.UTC)
	if got := ExportFilename(now); got != "tasks-2026-09-01.json" {
		t.Errorf("ExportFilename = %q", got)
	}
}

func TestImportJSONExportSnapshotHasNoSideEffects(t *testing.T) {
	s, p := newTestStore(t)
	mustCreate(t, s, "x")
	saves := p.saves

	if _, err := s.ExportJSON(); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	exported := s.ExportAll()
	exported[0].Title = "mutated"

	if got, _ := s.Get(s.Tasks()[0].ID); got.Title != "x" {
		t.Errorf("export snapshot mutated the store: %q", got.Title)
	}
	if p.saves != saves {
		t.Error("export triggered a save")
	}
}
