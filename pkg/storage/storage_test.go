package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "cache.sqlite"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestGetMissingKey(t *testing.T) {
	db := openTestDB(t)
	body, err := db.Get(context.Background(), "nope")
	if err != nil {
		t.Fatal(err)
	}
	if body != nil {
		t.Fatalf("expected nil for missing key, got %q", body)
	}
}

func TestPutGetOverwrite(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := db.Put(ctx, "k", []byte(`{"v":1}`)); err != nil {
		t.Fatal(err)
	}
	if err := db.Put(ctx, "k", []byte(`{"v":2}`)); err != nil {
		t.Fatal(err)
	}
	body, err := db.Get(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != `{"v":2}` {
		t.Fatalf("expected latest write, got %q", body)
	}

	if _, ok, err := db.UpdatedAt(ctx, "k"); err != nil || !ok {
		t.Fatalf("UpdatedAt = ok=%v err=%v", ok, err)
	}
}

func TestKeysAreIndependentSlots(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := db.Put(ctx, "content", []byte("c")); err != nil {
		t.Fatal(err)
	}
	if err := db.Put(ctx, "events", []byte("e")); err != nil {
		t.Fatal(err)
	}
	if err := db.Delete(ctx, "content"); err != nil {
		t.Fatal(err)
	}

	if body, _ := db.Get(ctx, "content"); body != nil {
		t.Fatalf("deleted slot still readable: %q", body)
	}
	if body, _ := db.Get(ctx, "events"); string(body) != "e" {
		t.Fatalf("sibling slot damaged: %q", body)
	}
}

func TestCloseNil(t *testing.T) {
	var db *DB
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}
}
