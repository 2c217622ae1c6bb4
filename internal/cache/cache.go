// Package cache is the local persistent slot for the document: a single
// serialized snapshot, written best-effort after every mutation and read
// back at startup or on an explicit restore.
package cache

import (
	"os"
	"path/filepath"

	"github.com/maruten0420/REDZONE-history/internal/document"
)

// Dir returns the cache directory path.
func Dir() string {
	dir := os.Getenv("XDG_CACHE_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".cache")
	}
	return filepath.Join(dir, "redzone")
}

func slotPath() string {
	return filepath.Join(Dir(), "document.json")
}

// Save snapshots the document. Best effort: a failed write is reported
// but never interrupts the editing session.
func Save(doc document.Document) error {
	data, err := document.Export(doc)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(Dir(), 0o755); err != nil {
		return err
	}
	return os.WriteFile(slotPath(), data, 0o644)
}

// Load reads the cached document. ok is false when no snapshot exists or
// it cannot be parsed; the caller falls back to an empty document.
func Load() (document.Document, bool) {
	data, err := os.ReadFile(slotPath())
	if err != nil {
		return nil, false
	}
	doc, err := document.Parse(data)
	if err != nil {
		return nil, false
	}
	return doc, true
}

// Exists reports whether a snapshot is present.
func Exists() bool {
	_, err := os.Stat(slotPath())
	return err == nil
}

// Clear removes the snapshot (reset-to-remote).
func Clear() error {
	err := os.Remove(slotPath())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
