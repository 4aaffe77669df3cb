package storage

import (
	"testing"
)

func TestFileKVStore_SetGet(t *testing.T) {
	kv, err := NewFileKVStore(t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}

	if err := kv.Set("lumina-theme", "dark"); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, err := kv.Get("lumina-theme")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok || got != "dark" {
		t.Fatalf("expected dark, got %q (ok=%v)", got, ok)
	}
}

func TestFileKVStore_MissingKey(t *testing.T) {
	kv, err := NewFileKVStore(t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	_, ok, err := kv.Get("absent")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatal("absent key must report ok=false")
	}
}

func TestFileKVStore_Overwrite(t *testing.T) {
	kv, err := NewFileKVStore(t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	if err := kv.Set("k", "first"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := kv.Set("k", "second"); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, _, _ := kv.Get("k")
	if got != "second" {
		t.Fatalf("last write must win, got %q", got)
	}
}

func TestFileKVStore_Delete(t *testing.T) {
	kv, err := NewFileKVStore(t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	if err := kv.Set("k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := kv.Delete("k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := kv.Get("k"); ok {
		t.Fatal("deleted key must be absent")
	}
	// Deleting a missing key is not an error.
	if err := kv.Delete("k"); err != nil {
		t.Fatalf("delete absent: %v", err)
	}
}

func TestFileKVStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	kv, err := NewFileKVStore(dir)
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	if err := kv.Set("k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}

	kv2, err := NewFileKVStore(dir)
	if err != nil {
		t.Fatalf("reopening store: %v", err)
	}
	got, ok, _ := kv2.Get("k")
	if !ok || got != "v" {
		t.Fatalf("expected value to survive reopen, got %q (ok=%v)", got, ok)
	}
}

func TestMemKVStore(t *testing.T) {
	kv := NewMemKVStore()
	if err := kv.Set("k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, _ := kv.Get("k")
	if !ok || got != "v" {
		t.Fatalf("expected v, got %q (ok=%v)", got, ok)
	}
	_ = kv.Delete("k")
	if _, ok, _ := kv.Get("k"); ok {
		t.Fatal("deleted key must be absent")
	}
}
