// Package watch re-runs work when watched sample files change on disk.
package watch

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long a path must stay quiet before it is reported.
const DefaultDebounce = 300 * time.Millisecond

// minTick bounds how often pending paths are polled.
const minTick = time.Millisecond

// ChangeFunc receives the settled paths of one batch, sorted.
type ChangeFunc func(ctx context.Context, paths []string)

// Stats counts watcher activity.
type Stats struct {
	Created   int       `json:"created"`
	Modified  int       `json:"modified"`
	Removed   int       `json:"removed"`
	Batches   int       `json:"batches"`
	Errors    int       `json:"errors"`
	LastEvent time.Time `json:"last_event"`
	LastPath  string    `json:"last_path"`
}

// Watcher reports changes to a fixed set of files. It watches their parent
// directories so editors that replace files on save are still seen.
type Watcher struct {
	mu       sync.Mutex
	fs       *fsnotify.Watcher
	files    map[string]bool
	pending  map[string]time.Time
	debounce time.Duration
	onChange ChangeFunc
	logger   *zap.Logger
	stats    Stats
}

// New creates a watcher for files. A non-positive debounce uses DefaultDebounce.
func New(files []string, debounce time.Duration, onChange ChangeFunc, logger *zap.Logger) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := newWatcher(files, debounce, onChange, logger)
	w.fs = fs
	return w, nil
}

func newWatcher(files []string, debounce time.Duration, onChange ChangeFunc, logger *zap.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	set := make(map[string]bool, len(files))
	for _, f := range files {
		if abs, err := filepath.Abs(f); err == nil {
			f = abs
		}
		set[filepath.Clean(f)] = true
	}
	return &Watcher{
		files:    set,
		pending:  make(map[string]time.Time),
		debounce: debounce,
		onChange: onChange,
		logger:   logger,
	}
}

// Dirs returns the directories the watcher subscribes to.
func (w *Watcher) Dirs() []string {
	seen := make(map[string]bool)
	var dirs []string
	for f := range w.files {
		d := filepath.Dir(f)
		if !seen[d] {
			seen[d] = true
			dirs = append(dirs, d)
		}
	}
	sort.Strings(dirs)
	return dirs
}

// Run blocks until ctx is done, delivering settled batches to the change
// callback. The underlying watcher is closed on return.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()
	for _, d := range w.Dirs() {
		if err := w.fs.Add(d); err != nil {
			return err
		}
		w.logger.Debug("watching directory", zap.String("dir", d))
	}

	tick := time.NewTicker(w.tickInterval())
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handle(event, time.Now())

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case now := <-tick.C:
			if paths := w.settled(now); len(paths) > 0 {
				w.onChange(ctx, paths)
			}
		}
	}
}

// tickInterval is a third of the debounce, never below minTick.
func (w *Watcher) tickInterval() time.Duration {
	return max(w.debounce/3, minTick)
}

// handle records an event for a watched file.
func (w *Watcher) handle(event fsnotify.Event, at time.Time) {
	name := filepath.Clean(event.Name)
	if !w.files[name] {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	switch {
	case event.Op&fsnotify.Create != 0:
		w.stats.Created++
	case event.Op&fsnotify.Write != 0:
		w.stats.Modified++
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		w.stats.Removed++
	default:
		return
	}
	w.stats.LastEvent = at
	w.stats.LastPath = name
	w.pending[name] = at
}

// settled removes and returns the paths quiet for at least the debounce window.
func (w *Watcher) settled(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []string
	for p, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			out = append(out, p)
			delete(w.pending, p)
		}
	}
	if len(out) > 0 {
		w.stats.Batches++
		sort.Strings(out)
	}
	return out
}

// Stats returns a snapshot of watcher activity.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}
