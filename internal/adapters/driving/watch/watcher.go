// Package watch rebuilds the review index when the source file changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/domain"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/ports/driving"
	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/logger"
)

// DefaultDebounce coalesces the burst of events an editor or copy produces.
const DefaultDebounce = 2 * time.Second

// ErrMissingIndexService is returned when no index service is provided.
var ErrMissingIndexService = errors.New("watch: index service is required")

// Watcher triggers a full rebuild after the watched file settles.
// The parent directory is watched so replace-by-rename saves are seen.
type Watcher struct {
	path     string
	index    driving.IndexService
	debounce time.Duration

	// onBuild is called after every rebuild attempt.
	onBuild func(*domain.BuildReport, error)

	mu     sync.Mutex
	builds int
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a rebuild starts.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithBuildHook registers fn to run after every rebuild attempt.
func WithBuildHook(fn func(*domain.BuildReport, error)) Option {
	return func(w *Watcher) {
		w.onBuild = fn
	}
}

// New creates a watcher for path that rebuilds through index.
func New(path string, index driving.IndexService, opts ...Option) (*Watcher, error) {
	if index == nil {
		return nil, ErrMissingIndexService
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve %s: %w", path, err)
	}

	w := &Watcher{
		path:     abs,
		index:    index,
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Builds returns the number of rebuilds started so far.
func (w *Watcher) Builds() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.builds
}

// Run watches until ctx is cancelled. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch: add %s: %w", filepath.Dir(w.path), err)
	}
	logger.Info("Watching %s for changes", w.path)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			logger.Debug("Source change: %s", event)
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)

		case <-timer.C:
			w.rebuild(ctx)
		}
	}
}

// relevant reports whether event changes the watched file's contents.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

func (w *Watcher) rebuild(ctx context.Context) {
	w.mu.Lock()
	w.builds++
	w.mu.Unlock()

	logger.Section("Source changed, rebuilding index")
	report, err := w.index.Build(ctx, true)
	switch {
	case err != nil:
		logger.Error("Rebuild failed: %v", err)
	default:
		logger.Info("Rebuilt index with %d reviews in %d batches", report.Records, report.Batches())
	}

	if w.onBuild != nil {
		w.onBuild(report, err)
	}
}
