package store

import (
	"errors"
	"testing"

	"github.com/nonce-firewall/taskflow/internal/clierr"
	"github.com/nonce-firewall/taskflow/internal/task"
)

// fakePersister is an in-memory Persister that records saves and can be
// told to fail.
type fakePersister struct {
	saved   []*task.Task
	saves   int
	failErr error
}

func (p *fakePersister) Load() []*task.Task { return p.saved }

func (p *fakePersister) Save(tasks []*task.Task) error {
	if p.failErr != nil {
		return p.failErr
	}
	p.saves++
	p.saved = tasks
	return nil
}

func newTestStore(t *testing.T) (*Store, *fakePersister) {
	t.Helper()
	p := &fakePersister{}
	return Open(p), p
}

func mustCreate(t *testing.T, s *Store, title string) *task.Task {
	t.Helper()
	tk, err := s.Create(task.Draft{Title: title})
	if err != nil {
		t.Fatalf("Create(%q): %v", title, err)
	}
	return tk
}

func TestCreatePrependsAndSaves(t *testing.T) {
	s, p := newTestStore(t)

	mustCreate(t, s, "first")
	mustCreate(t, s, "second")

	got := s.Tasks()
	if len(got) != 2 || got[0].Title != "second" || got[1].Title != "first" {
		t.Fatalf("order = %v, want newest first", []string{got[0].Title, got[1].Title})
	}
	if p.saves != 2 {
		t.Errorf("saves = %d, want 2", p.saves)
	}
	if len(p.saved) != 2 {
		t.Errorf("persisted %d tasks, want 2", len(p.saved))
	}
}

func TestCreateValidationFailureChangesNothing(t *testing.T) {
	s, p := newTestStore(t)
	mustCreate(t, s, "keep")

	if _, err := s.Create(task.Draft{Title: "   "}); err == nil {
		t.Fatal("Create with blank title succeeded")
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
	if p.saves != 1 {
		t.Errorf("saves = %d, want 1 (no save on failed create)", p.saves)
	}
}

func TestOpenHydratesFromPersister(t *testing.T) {
	p := &fakePersister{}
	s := Open(p)
	mustCreate(t, s, "persisted")

	reopened := Open(p)
	if reopened.Len() != 1 {
		t.Fatalf("reopened Len = %d, want 1", reopened.Len())
	}
	if got := reopened.Tasks()[0].Title; got != "persisted" {
		t.Errorf("Title = %q", got)
	}
}

func TestTasksReturnsDeepCopies(t *testing.T) {
	s, _ := newTestStore(t)
	created := mustCreate(t, s, "original")

	snapshot := s.Tasks()
	snapshot[0].Title = "mutated"

	got, ok := s.Get(created.ID)
	if !ok {
		t.Fatal("task vanished")
	}
	if got.Title != "original" {
		t.Errorf("store mutated through snapshot: %q", got.Title)
	}
}

func TestUpdateUnknownIDIsNoOp(t *testing.T) {
	s, p := newTestStore(t)
	mustCreate(t, s, "x")
	saves := p.saves

	title := "new"
	got, found, err := s.Update("no-such-id", task.Patch{Title: &title})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if found || got != nil {
		t.Errorf("Update unknown id = (%v, %v), want (nil, false)", got, found)
	}
	if p.saves != saves {
		t.Errorf("unknown-id update triggered a save")
	}
}

func TestUpdateAppliesPatch(t *testing.T) {
	s, _ := newTestStore(t)
	created := mustCreate(t, s, "before")

	title := "after"
	prio := task.PriorityUrgent
	got, found, err := s.Update(created.ID, task.Patch{Title: &title, Priority: &prio})
	if err != nil || !found {
		t.Fatalf("Update = (%v, %v, %v)", got, found, err)
	}
	if got.Title != "after" || got.Priority != task.PriorityUrgent {
		t.Errorf("updated task = %+v", got)
	}

	stored, _ := s.Get(created.ID)
	if stored.Title != "after" {
		t.Errorf("stored title = %q", stored.Title)
	}
}

func TestUpdateInvalidPatchLeavesTaskUnchanged(t *testing.T) {
	s, _ := newTestStore(t)
	created := mustCreate(t, s, "keep")

	blank := " "
	_, found, err := s.Update(created.ID, task.Patch{Title: &blank})
	if err == nil {
		t.Fatal("Update with blank title succeeded")
	}
	if !found {
		t.Error("found = false for existing id")
	}
	stored, _ := s.Get(created.ID)
	if stored.Title != "keep" {
		t.Errorf("stored title = %q, want unchanged", stored.Title)
	}
}

func TestDelete(t *testing.T) {
	s, _ := newTestStore(t)
	created := mustCreate(t, s, "doomed")

	ok, err := s.Delete(created.ID)
	if err != nil || !ok {
		t.Fatalf("Delete = (%v, %v)", ok, err)
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d after delete", s.Len())
	}

	ok, err = s.Delete(created.ID)
	if err != nil {
		t.Fatalf("second Delete: %v", err)
	}
	if ok {
		t.Error("second Delete reported found")
	}
}

func TestAdvanceStatusCycles(t *testing.T) {
	s, _ := newTestStore(t)
	created := mustCreate(t, s, "cycle me")

	want := []task.Status{task.StatusInProgress, task.StatusCompleted, task.StatusTodo}
	for _, w := range want {
		got, found, err := s.AdvanceStatus(created.ID)
		if err != nil || !found {
			t.Fatalf("AdvanceStatus = (%v, %v, %v)", got, found, err)
		}
		if got.Status != w {
			t.Fatalf("Status = %q, want %q", got.Status, w)
		}
	}

	_, found, err := s.AdvanceStatus("missing")
	if err != nil {
		t.Fatalf("AdvanceStatus missing: %v", err)
	}
	if found {
		t.Error("AdvanceStatus reported found for missing id")
	}
}

func TestPersistFailureReturnsPersistError(t *testing.T) {
	s, p := newTestStore(t)
	p.failErr = errors.New("disk full")

	got, err := s.Create(task.Draft{Title: "still created"})
	if err == nil {
		t.Fatal("Create with failing persister returned nil error")
	}
	var pe *PersistError
	if !errors.As(err, &pe) {
		t.Fatalf("error type = %T, want *PersistError", err)
	}
	if got == nil {
		t.Fatal("task not returned despite in-memory success")
	}
	// The mutation itself must have stuck.
	if _, ok := s.Get(got.ID); !ok {
		t.Error("task missing from collection after persist failure")
	}
}

func TestCategories(t *testing.T) {
	s, _ := newTestStore(t)
	for _, c := range []string{"work", "", "home", "work"} {
		if _, err := s.Create(task.Draft{Title: "t", Category: c}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got := s.Categories()
	// Collection order is newest first.
	if len(got) != 2 || got[0] != "home" || got[1] != "work" {
		t.Errorf("Categories = %v, want [home work]", got)
	}
}

func TestResolveID(t *testing.T) {
	p := &fakePersister{saved: []*task.Task{
		{ID: "abc12345-x", Title: "a"},
		{ID: "abd67890-y", Title: "b"},
	}}
	s := Open(p)

	if got, err := s.ResolveID("abc12345-x"); err != nil || got != "abc12345-x" {
		t.Errorf("exact match = (%q, %v)", got, err)
	}
	if got, err := s.ResolveID("abc"); err != nil || got != "abc12345-x" {
		t.Errorf("unique prefix = (%q, %v)", got, err)
	}

	_, err := s.ResolveID("ab")
	var cliErr *clierr.Error
	if !errors.As(err, &cliErr) || cliErr.Code != clierr.AmbiguousID {
		t.Errorf("ambiguous prefix err = %v, want %s", err, clierr.AmbiguousID)
	}

	_, err = s.ResolveID("zzz")
	if !errors.As(err, &cliErr) || cliErr.Code != clierr.TaskNotFound {
		t.Errorf("unknown prefix err = %v, want %s", err, clierr.TaskNotFound)
	}

	_, err = s.ResolveID("")
	if !errors.As(err, &cliErr) || cliErr.Code != clierr.InvalidInput {
		t.Errorf("empty arg err = %v, want %s", err, clierr.InvalidInput)
	}
}
