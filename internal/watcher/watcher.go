package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/meeting-minutes/internal/logger"
	"github.com/nguyentantai21042004/meeting-minutes/internal/transcript"
)

type implWatcher struct {
	inputDir      string
	handler       EventHandler
	logger        logger.Logger
	watcher       *fsnotify.Watcher
	maxConcurrent int
	semaphore     chan struct{}
	settle        time.Duration
	wg            sync.WaitGroup

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// Start picks up transcripts already waiting in the input directory, then
// handles every new one until ctx is cancelled
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "File watcher started (max concurrent: %d). Monitoring: %s", w.maxConcurrent, w.inputDir)
	w.logger.Info(ctx, "Supported formats: .vtt, .txt")

	if err := w.scanExisting(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return w.shutdown(ctx)

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}

			// Editors and copy tools often create then write, so both count
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !transcript.IsTranscriptFile(event.Name) {
				w.logger.Debug(ctx, "Ignoring non-transcript file: %s", event.Name)
				continue
			}

			w.logger.Info(ctx, "New transcript detected: %s", event.Name)
			if err := w.dispatch(ctx, event.Name, w.settle); err != nil {
				return w.shutdown(ctx)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

func (w *implWatcher) scanExisting(ctx context.Context) error {
	dirEntries, err := os.ReadDir(w.inputDir)
	if err != nil {
		return fmt.Errorf("scan input dir: %w", err)
	}

	for _, e := range dirEntries {
		if e.IsDir() || !transcript.IsTranscriptFile(e.Name()) {
			continue
		}
		path := filepath.Join(w.inputDir, e.Name())
		w.logger.Info(ctx, "Pending transcript found: %s", path)
		if err := w.dispatch(ctx, path, 0); err != nil {
			return w.shutdown(ctx)
		}
	}
	return nil
}

// dispatch hands path to the handler once a semaphore slot is free. A file
// that is already being handled is skipped.
func (w *implWatcher) dispatch(ctx context.Context, path string, delay time.Duration) error {
	if !w.claim(path) {
		w.logger.Debug(ctx, "Already processing: %s", path)
		return nil
	}

	// Small delay to ensure file is fully written
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			w.unclaim(path)
			return ctx.Err()
		}
	}

	// Acquire semaphore slot (blocks if max concurrent reached)
	select {
	case w.semaphore <- struct{}{}:
	case <-ctx.Done():
		w.unclaim(path)
		return ctx.Err()
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() { <-w.semaphore }()
		defer w.unclaim(path)

		if err := w.handler(ctx, path); err != nil {
			w.logger.Error(ctx, "Failed to process %s: %v", path, err)
		}
	}()
	return nil
}

func (w *implWatcher) claim(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.inFlight[path]; ok {
		return false
	}
	w.inFlight[path] = struct{}{}
	return true
}

func (w *implWatcher) unclaim(path string) {
	w.mu.Lock()
	delete(w.inFlight, path)
	w.mu.Unlock()
}

func (w *implWatcher) shutdown(ctx context.Context) error {
	w.logger.Info(ctx, "Waiting for ongoing processing to complete...")
	w.wg.Wait()
	w.logger.Info(ctx, "File watcher stopped")
	return ctx.Err()
}
