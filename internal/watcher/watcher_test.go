package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/nguyentantai21042004/meeting-minutes/internal/logger"
)

type recorder struct {
	mu    sync.Mutex
	paths []string
	seen  chan struct{}
}

func (r *recorder) handle(ctx context.Context, path string) error {
	r.mu.Lock()
	r.paths = append(r.paths, filepath.Base(path))
	r.mu.Unlock()
	r.seen <- struct{}{}
	return nil
}

func (r *recorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]string(nil), r.paths...)
	sort.Strings(out)
	return out
}

func waitFor(t *testing.T, ch <-chan struct{}, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-ch:
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out after %d of %d files", i, n)
		}
	}
}

func TestWatcherPicksUpTranscripts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"pending.vtt", "video.mp4", "notes.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	rec := &recorder{seen: make(chan struct{}, 16)}
	w, err := New(dir, rec.handle, logger.Nop(), 2)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Stop()
	w.(*implWatcher).settle = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	waitFor(t, rec.seen, 1)

	if err := os.WriteFile(filepath.Join(dir, "standup.TXT"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "clip.mov"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, rec.seen, 1)

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Start() error = %v, want context.Canceled", err)
	}

	names := rec.names()
	// A create followed by a write can be reported twice once the first run
	// has finished; every name must still be a transcript.
	for _, n := range names {
		if n != "pending.vtt" && n != "standup.TXT" {
			t.Errorf("handled unexpected file %q", n)
		}
	}
	if len(names) < 2 || names[0] != "pending.vtt" {
		t.Errorf("handled = %v", names)
	}
}

func TestNewMissingDir(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "missing"), nil, logger.Nop(), 1); err == nil {
		t.Error("New() should fail for a missing directory")
	}
}

func TestClaim(t *testing.T) {
	w := &implWatcher{inFlight: make(map[string]struct{})}
	if !w.claim("a.vtt") {
		t.Fatal("first claim should succeed")
	}
	if w.claim("a.vtt") {
		t.Error("second claim should be refused while in flight")
	}
	w.unclaim("a.vtt")
	if !w.claim("a.vtt") {
		t.Error("claim after unclaim should succeed")
	}
}
