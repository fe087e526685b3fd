package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"gofinances/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "kv.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if _, err := s.Get(ctx, "absent"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := s.Set(ctx, "session", []byte(`{"id":"u1"}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := s.Get(ctx, "session")
	if err != nil || string(got) != `{"id":"u1"}` {
		t.Fatalf("get = %q, %v", got, err)
	}

	// Upsert replaces, no duplicate rows.
	if err := s.Set(ctx, "session", []byte(`{"id":"u2"}`)); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, _ = s.Get(ctx, "session")
	if string(got) != `{"id":"u2"}` {
		t.Fatalf("after upsert: got %q", got)
	}

	if err := s.Remove(ctx, "session"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := s.Get(ctx, "session"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after remove, got %v", err)
	}
	if err := s.Remove(ctx, "session"); err != nil {
		t.Fatalf("remove absent: %v", err)
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "kv.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	_ = s.Close()

	// Re-opening runs migrations again; ErrNoChange must not surface.
	s2, err := New(dbPath)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	_ = s2.Close()
}

func TestValuesSurviveReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "kv.db")

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Set(ctx, "k", []byte("persisted")); err != nil {
		t.Fatalf("set: %v", err)
	}
	_ = s.Close()

	s2, err := New(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	got, err := s2.Get(ctx, "k")
	if err != nil || string(got) != "persisted" {
		t.Fatalf("get after reopen = %q, %v", got, err)
	}
}
