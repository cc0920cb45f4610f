package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStore_SaveLoadClear(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(filepath.Join(t.TempDir(), "writerhub", "session.json"))

	if _, err := s.Load(ctx); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if err := s.Save(ctx, []byte(`{"a":1}`)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Save(ctx, []byte(`{"a":2}`)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	blob, err := s.Load(ctx)
	if err != nil || string(blob) != `{"a":2}` {
		t.Fatalf("expected latest blob, got %q (%v)", blob, err)
	}

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected temp files to be cleaned up, got %d entries", len(entries))
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("second Clear must be a no-op, got %v", err)
	}
	if _, err := s.Load(ctx); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession after clear, got %v", err)
	}
}

func TestFileStore_ReadError(t *testing.T) {
	dir := t.TempDir()
	// A directory at the session path cannot be read as a file.
	s := NewFileStore(dir)
	_, err := s.Load(context.Background())
	if err == nil || errors.Is(err, ErrNoSession) {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestManager_Load_ReadError(t *testing.T) {
	f := newFixture(t, NewFileStore(t.TempDir()))
	m := f.manager()
	if err := m.Load(context.Background()); err == nil {
		t.Fatalf("expected load error")
	}
	if m.State() != StateAnonymous {
		t.Fatalf("expected anonymous after read error, got %s", m.State())
	}
}

func TestMemoryStore_CopiesBlob(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	in := []byte("abc")
	_ = s.Save(ctx, in)
	in[0] = 'z'

	out, _ := s.Load(ctx)
	if string(out) != "abc" {
		t.Fatalf("store must copy on save, got %q", out)
	}
	out[1] = 'z'
	again, _ := s.Load(ctx)
	if string(again) != "abc" {
		t.Fatalf("store must copy on load, got %q", again)
	}
}
