package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

type changeCounter struct {
	mu sync.Mutex
	n  int
}

func (c *changeCounter) inc() {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
}

func (c *changeCounter) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

func (c *changeCounter) waitFor(t *testing.T, want int) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if c.count() >= want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected %d changes, got %d", want, c.count())
}

func TestWatcherTriggersOnWatchedFile(t *testing.T) {
	dir := t.TempDir()
	var c changeCounter

	w := NewWatcher(dir, []string{"jobs.csv"}, 50*time.Millisecond, c.inc, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "jobs.csv"), []byte("id,title\n"), 0644); err != nil {
		t.Fatal(err)
	}
	c.waitFor(t, 1)
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	var c changeCounter

	w := NewWatcher(dir, []string{"jobs.csv"}, 50*time.Millisecond, c.inc, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(200 * time.Millisecond)
	if c.count() != 0 {
		t.Errorf("expected no changes for unwatched file, got %d", c.count())
	}
}

func TestWatcherDebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	var c changeCounter

	w := NewWatcher(dir, []string{"sessions.json"}, 150*time.Millisecond, c.inc, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	path := filepath.Join(dir, "sessions.json")
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte("[]"), 0644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(20 * time.Millisecond)
	}
	c.waitFor(t, 1)
	time.Sleep(300 * time.Millisecond)
	if c.count() != 1 {
		t.Errorf("expected a burst to collapse into 1 change, got %d", c.count())
	}
}

func TestWatcherStopCancelsPending(t *testing.T) {
	dir := t.TempDir()
	var c changeCounter

	w := NewWatcher(dir, []string{"jobs.csv"}, 300*time.Millisecond, c.inc, zap.NewNop())
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "jobs.csv"), []byte("id\n"), 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)
	w.Stop()
	time.Sleep(400 * time.Millisecond)
	if c.count() != 0 {
		t.Errorf("expected pending debounce to be cancelled, got %d", c.count())
	}
}
