// ABOUTME: Tests for recent login ID management
// ABOUTME: Validates config storage, max limit, deduplication and corrupt files

package recentids

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEmpty(t *testing.T) {
	r := New(t.TempDir())

	ids, err := r.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("expected empty list, got %v", ids)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	if err := New(dir).Save([]string{"admin", "kim"}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := New(dir).Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(loaded) != 2 || loaded[0] != "admin" {
		t.Errorf("unexpected ids %v", loaded)
	}
}

func TestAddMoveToFront(t *testing.T) {
	r := New(t.TempDir())

	r.Add("admin")
	r.Add("kim")
	if ids := r.List(); len(ids) != 2 || ids[0] != "kim" {
		t.Fatalf("expected kim first, got %v", ids)
	}

	r.Add("admin")
	ids, _ := r.Load()
	if len(ids) != 2 || ids[0] != "admin" {
		t.Errorf("expected admin first after re-add, got %v", ids)
	}
}

func TestAddIgnoresBlank(t *testing.T) {
	r := New(t.TempDir())
	r.Add("  ")
	if ids := r.List(); len(ids) != 0 {
		t.Errorf("expected no ids, got %v", ids)
	}
}

func TestMaxLimit(t *testing.T) {
	r := New(t.TempDir())
	for i := 1; i <= 7; i++ {
		r.Add(fmt.Sprintf("user%d", i))
	}

	ids, _ := r.Load()
	if len(ids) != MaxRecentIDs {
		t.Errorf("expected %d ids max, got %d", MaxRecentIDs, len(ids))
	}
	if ids[0] != "user7" {
		t.Errorf("expected user7 first, got %s", ids[0])
	}
}

func TestCorruptFileStartsFresh(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "recent.json"), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	ids, err := New(dir).Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("expected empty list, got %v", ids)
	}
}

func TestCreatesConfigDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "xpg-admin")
	r := New(dir)

	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatal("config dir should not exist yet")
	}
	r.Add("admin")
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("config dir should have been created: %v", err)
	}
}
