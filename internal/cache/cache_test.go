package cache

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/maruten0420/REDZONE-history/internal/document"
)

func TestDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/test-cache")
	if Dir() != "/tmp/test-cache/redzone" {
		t.Errorf("expected /tmp/test-cache/redzone, got %q", Dir())
	}

	t.Setenv("XDG_CACHE_HOME", "")
	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", "redzone")
	if Dir() != expected {
		t.Errorf("expected %q, got %q", expected, Dir())
	}
}

func TestLoadMissing(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	if Exists() {
		t.Error("no snapshot should exist yet")
	}
	if _, ok := Load(); ok {
		t.Error("Load must report no snapshot")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	doc := document.Normalize(document.Document{
		{ID: "a", Title: "One", Date: "2020-01-01", Category: document.CategoryTechnique},
	})
	if err := Save(doc); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !Exists() {
		t.Error("expected snapshot after Save")
	}

	back, ok := Load()
	if !ok {
		t.Fatal("Load failed")
	}
	if !reflect.DeepEqual(doc, back) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", back, doc)
	}
}

func TestLoadCorruptSnapshot(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", tmp)

	os.MkdirAll(filepath.Join(tmp, "redzone"), 0o755)
	os.WriteFile(filepath.Join(tmp, "redzone", "document.json"), []byte("{not an array"), 0o644)

	if _, ok := Load(); ok {
		t.Error("corrupt snapshot must not load")
	}
}

func TestClear(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	if err := Clear(); err != nil {
		t.Errorf("Clear on empty cache must succeed: %v", err)
	}

	Save(document.Document{})
	if err := Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if Exists() {
		t.Error("snapshot still present after Clear")
	}
}
