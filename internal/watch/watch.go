// Package watch reruns a callback when model files change.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/erraggy/smithygen/parser"
)

// DefaultDebounce is how long the watcher waits for further changes
// before running the callback.
const DefaultDebounce = 300 * time.Millisecond

// Func is run after a burst of changes settles. changed is the last file
// reported.
type Func func(ctx context.Context, changed string) error

// Watcher watches a set of files through their directories, so editors
// that replace files on save are still seen.
type Watcher struct {
	files    map[string]bool
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   parser.Logger

	mu    sync.Mutex
	timer *time.Timer
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before the callback runs.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithLogger sets the logger.
func WithLogger(l parser.Logger) Option {
	return func(w *Watcher) { w.logger = parser.OrNop(l) }
}

// New watches files.
func New(files []string, opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: failed to create fsnotify watcher: %w", err)
	}
	w := &Watcher{
		files:    make(map[string]bool, len(files)),
		watcher:  fw,
		debounce: DefaultDebounce,
		logger:   parser.NopLogger{},
	}
	for _, opt := range opts {
		opt(w)
	}

	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("watch: %s: %w", f, err)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("watch: failed to watch %s: %w", dir, err)
		}
	}
	return w, nil
}

// Run calls fn after each settled burst of writes to the watched files
// until ctx is done. Callback errors are logged and watching continues.
func (w *Watcher) Run(ctx context.Context, fn Func) error {
	defer w.watcher.Close()

	fire := make(chan string, 1)
	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !w.files[abs] {
				continue
			}
			w.logger.Debug("model changed", "file", abs, "op", event.Op.String())
			w.schedule(abs, fire)

		case changed := <-fire:
			if err := fn(ctx, changed); err != nil {
				w.logger.Error("regeneration failed", "file", changed, "error", err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

// schedule restarts the debounce timer.
func (w *Watcher) schedule(file string, fire chan<- string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case fire <- file:
		default:
		}
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}
