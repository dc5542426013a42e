package kvstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestSQLiteRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	st, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	defer st.Close()

	ctx := context.Background()

	if _, err := st.Get(ctx, "missing"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}

	if err := st.Set(ctx, "k", []byte("v1")); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := st.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "v1" {
		t.Fatalf("expected v1, got %s", got)
	}

	// Set on an existing key overwrites.
	if err := st.Set(ctx, "k", []byte("v2")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err = st.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get after overwrite: %v", err)
	}
	if string(got) != "v2" {
		t.Fatalf("expected v2, got %s", got)
	}

	if err := st.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := st.Get(ctx, "k"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound after delete, got %v", err)
	}

	// Deleting an absent key is not an error.
	if err := st.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete absent: %v", err)
	}
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	ctx := context.Background()

	st, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	if err := st.Set(ctx, "cart", []byte(`[{"skuCode":"TSHIRT-M"}]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(ctx, "cart")
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if string(got) != `[{"skuCode":"TSHIRT-M"}]` {
		t.Fatalf("unexpected value after reopen: %s", got)
	}
}
