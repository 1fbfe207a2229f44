package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const descriptor = `
name: Loft
default_node_id: entry
mesh_url: loft.glb
environment_url: studio.hdr
nodes:
  - id: entry
    position: {x: 0, y: 0, z: 0}
`

const descriptorTwoNodes = descriptor + `  - id: kitchen
    position: {x: 4, y: 0, z: -2}
`

func waitUpdate(t *testing.T, w *Watcher) Update {
	t.Helper()
	select {
	case u, ok := <-w.Updates():
		if !ok {
			t.Fatal("updates closed")
		}
		return u
	case <-time.After(5 * time.Second):
		t.Fatal("no update")
	}
	return Update{}
}

func TestWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "space.yaml")
	if err := os.WriteFile(path, []byte(descriptor), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(path, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Unrelated files in the same directory are ignored.
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644)
	if err := os.WriteFile(path, []byte(descriptorTwoNodes), 0o644); err != nil {
		t.Fatal(err)
	}

	u := waitUpdate(t, w)
	if u.Err != nil {
		t.Fatalf("reload: %v", u.Err)
	}
	if len(u.Space.Nodes) != 2 {
		t.Errorf("nodes = %d, want 2", len(u.Space.Nodes))
	}

	if err := os.WriteFile(path, []byte("nodes: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	// A late duplicate of the previous reload may arrive first.
	for u := waitUpdate(t, w); u.Err == nil; u = waitUpdate(t, w) {
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run: %v", err)
	}
	if _, ok := <-w.Updates(); ok {
		t.Error("updates not closed after Run")
	}
}

func TestNewMissingDirectory(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "missing", "space.yaml"), 0); err == nil {
		t.Error("expected error for missing directory")
	}
}
