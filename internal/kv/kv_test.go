package kv

import (
	"bytes"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGetMissingKey(t *testing.T) {
	s := openTestStore(t)

	val, ok, err := s.Get("absent")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("ok = true for missing key")
	}
	if val != nil {
		t.Errorf("val = %v, want nil", val)
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	s := openTestStore(t)

	want := []byte(`{"some":"payload"}`)
	if err := s.Set("tasks", want); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, ok, err := s.Get("tasks")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("ok = false after Set")
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Get = %s, want %s", got, want)
	}
}

func TestSetOverwrites(t *testing.T) {
	s := openTestStore(t)

	if err := s.Set("k", []byte("old")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set("k", []byte("new")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, _, err := s.Get("k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "new" {
		t.Errorf("Get = %s, want new", got)
	}
}

func TestOpenCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if err := s.Set("k", []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}
}

func TestDataSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Set("k", []byte("durable")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	got, ok, err := s2.Get("k")
	if err != nil || !ok {
		t.Fatalf("Get after reopen = (%s, %v, %v)", got, ok, err)
	}
	if string(got) != "durable" {
		t.Errorf("Get = %s", got)
	}
}

func TestOpenEmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Error("Open(\"\") succeeded, want error")
	}
}
