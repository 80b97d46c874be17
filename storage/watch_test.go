package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "watched.txt")
	other := filepath.Join(dir, "other.txt")
	for _, p := range []string{watched, other} {
		if err := os.WriteFile(p, []byte("v1"), 0644); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}

	w, err := NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()
	if err := w.Watch(watched); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changed := make(chan string, 16)
	go w.Run(ctx, func(path string) { changed <- path })

	if err := os.WriteFile(other, []byte("v2"), 0644); err != nil {
		t.Fatalf("write other: %v", err)
	}
	if err := os.WriteFile(watched, []byte("v2"), 0644); err != nil {
		t.Fatalf("write watched: %v", err)
	}

	select {
	case got := <-changed:
		if got != watched {
			t.Errorf("changed = %q, want %q", got, watched)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatcherIgnoresObjectPaths(t *testing.T) {
	w, err := NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()
	if err := w.Watch("s3://bucket/key.txt"); err != nil {
		t.Errorf("Watch object path: %v", err)
	}
	if len(w.files) != 0 {
		t.Error("object paths should not be watched")
	}
	w.Unwatch("s3://bucket/key.txt")
}
