package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "client.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	if _, ok, err := s.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}

	if err := s.Set(ctx, "token", "abc"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set(ctx, "token", "def"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, ok, err := s.Get(ctx, "token")
	if err != nil || !ok || v != "def" {
		t.Fatalf("expected def, got %q ok=%v err=%v", v, ok, err)
	}

	if err := s.Delete(ctx, "token"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "token"); ok {
		t.Fatalf("expected key removed")
	}
}

func TestSQLiteStore_KeysAndReset(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	s.Set(ctx, "alerts.b", "1")
	s.Set(ctx, "alerts.a", "1")
	s.Set(ctx, "token", "x")

	keys, err := s.Keys(ctx, "alerts.")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 2 || keys[0] != "alerts.a" || keys[1] != "alerts.b" {
		t.Fatalf("unexpected keys %v", keys)
	}

	if err := s.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	keys, _ = s.Keys(ctx, "")
	if len(keys) != 0 {
		t.Fatalf("expected empty store, got %v", keys)
	}
}

func TestSQLiteStore_KeysMatchPrefixLiterally(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	s.Set(ctx, "vesta_nest.user", "1")
	s.Set(ctx, "vestaXnest.user", "1")
	s.Set(ctx, "vesta%nest.user", "1")

	keys, err := s.Keys(ctx, "vesta_nest.")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 1 || keys[0] != "vesta_nest.user" {
		t.Fatalf("expected only the literal prefix match, got %v", keys)
	}

	keys, _ = s.Keys(ctx, "vesta%")
	if len(keys) != 1 || keys[0] != "vesta%nest.user" {
		t.Fatalf("expected %% to match literally, got %v", keys)
	}
}
