package confloader

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/yndnr/kvplay-go/internal/telemetry/logger"
)

// changes records handler calls.
type changes struct {
	mu    sync.Mutex
	paths []string
	ch    chan string
}

func newChanges() *changes {
	return &changes{ch: make(chan string, 16)}
}

func (c *changes) record(path string) {
	c.mu.Lock()
	c.paths = append(c.paths, path)
	c.mu.Unlock()
	c.ch <- path
}

func (c *changes) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.paths)
}

func (c *changes) wait(t *testing.T) string {
	t.Helper()
	select {
	case p := <-c.ch:
		return p
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
		return ""
	}
}

func startWatcher(t *testing.T, path string, opts ...WatcherOption) *changes {
	t.Helper()
	l, err := logger.New(logger.Config{Level: "debug", Format: "text", Output: io.Discard})
	if err != nil {
		t.Fatalf("logger.New() error = %v", err)
	}

	w, err := NewWatcher(append([]WatcherOption{WithWatcherLogger(l)}, opts...)...)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	t.Cleanup(func() { w.Stop() })

	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	c := newChanges()
	w.OnChange(c.record)
	w.StartAsync()

	// Give fsnotify time to register the directory.
	time.Sleep(50 * time.Millisecond)
	return c
}

func TestWatcher_Watch_NonexistentDir(t *testing.T) {
	w, err := NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	if err := w.Watch("/nonexistent/path/config.yaml"); err == nil {
		t.Error("Watch() should fail for a missing directory")
	}
}

func TestWatcher_FileChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kvplay.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: warn\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c := startWatcher(t, path, WithDebounce(0))

	if err := os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := c.wait(t); got != filepath.Clean(path) {
		t.Errorf("changed path = %q, want %q", got, path)
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kvplay.yaml")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	c := startWatcher(t, path, WithDebounce(0))

	if err := os.WriteFile(filepath.Join(dir, "history"), []byte("SET a 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(200 * time.Millisecond)
	if n := c.count(); n != 0 {
		t.Errorf("handler called %d times for an unwatched file", n)
	}

	// Created later, as editors do when they save via rename.
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	c.wait(t)
}

func TestWatcher_Debounce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kvplay.yaml")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	c := startWatcher(t, path, WithDebounce(300*time.Millisecond))

	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("console:\n  banner: false\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	c.wait(t)
	time.Sleep(400 * time.Millisecond)
	if n := c.count(); n != 1 {
		t.Errorf("handler called %d times, want 1 for a burst of writes", n)
	}
}

func TestWatcher_StopDropsPending(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kvplay.yaml")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(WithDebounce(time.Second))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	c := newChanges()
	w.OnChange(c.record)
	w.StartAsync()
	time.Sleep(50 * time.Millisecond)

	if err := os.WriteFile(path, []byte("{}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)

	if err := w.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("second Stop() error = %v", err)
	}

	time.Sleep(1200 * time.Millisecond)
	if n := c.count(); n != 0 {
		t.Errorf("handler called %d times after Stop", n)
	}
}

func TestWatcher_MultipleHandlers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kvplay.yaml")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(WithDebounce(20 * time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	reload, audit := newChanges(), newChanges()
	w.OnChange(reload.record)
	w.OnChange(audit.record)
	w.StartAsync()
	time.Sleep(50 * time.Millisecond)

	if err := os.WriteFile(path, []byte("log:\n  level: info\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	reload.wait(t)
	audit.wait(t)
}
