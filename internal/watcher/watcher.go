// Package watcher re-hints sample files whenever they change on disk.
package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// WatchConfig contains watcher settings.
type WatchConfig struct {
	Debounce       time.Duration // Quiet period before a changed file is handled
	IgnorePatterns []string      // Glob patterns for scratch files (nil = defaults)
}

// DefaultWatchConfig returns a WatchConfig with sensible defaults.
func DefaultWatchConfig() *WatchConfig {
	return &WatchConfig{
		Debounce:       300 * time.Millisecond,
		IgnorePatterns: DefaultIgnorePatterns(),
	}
}

// WatchSummary contains stats from the watch session.
type WatchSummary struct {
	Handled  int
	Failed   int
	Ignored  int
	Duration time.Duration
}

// Handler processes a changed file.
type Handler func(path string) error

// Watcher monitors sample files, given one by one or as whole directories.
// fsnotify watches directories so files replaced by rename (the usual
// editor save) keep being tracked.
type Watcher struct {
	config    *WatchConfig
	handler   Handler
	logger    *zap.Logger
	filter    *FileFilter
	debouncer *Debouncer
	fsWatcher *fsnotify.Watcher
	targets   map[string]bool
	dirs      map[string]bool
	done      chan struct{}
	wg        sync.WaitGroup
	startTime time.Time

	mu      sync.Mutex
	handled int
	failed  int
	ignored int
}

// New creates a Watcher. A nil config selects the defaults and a nil
// logger discards log output.
func New(config *WatchConfig, handler Handler, logger *zap.Logger) *Watcher {
	if config == nil {
		config = DefaultWatchConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Watcher{
		config:  config,
		handler: handler,
		logger:  logger,
		filter:  NewFileFilter(config.IgnorePatterns),
		targets: make(map[string]bool),
		dirs:    make(map[string]bool),
		done:    make(chan struct{}),
	}
	w.debouncer = NewDebouncer(config.Debounce, w.handle)
	return w
}

// Start begins watching paths. A directory covers every file in it that
// the ignore patterns let through. It returns an error if the watcher
// cannot be initialized; the watcher then runs until Stop is called.
func (w *Watcher) Start(paths []string) error {
	if len(paths) == 0 {
		return errors.New("watcher: nothing to watch")
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	watched := make(map[string]bool)
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			fsWatcher.Close()
			return err
		}
		info, err := os.Stat(abs)
		if err != nil {
			fsWatcher.Close()
			return err
		}

		dir := filepath.Dir(abs)
		if info.IsDir() {
			dir = abs
			w.dirs[abs] = true
		} else {
			w.targets[abs] = true
		}
		if watched[dir] {
			continue
		}
		if err := fsWatcher.Add(dir); err != nil {
			fsWatcher.Close()
			return err
		}
		watched[dir] = true
	}

	w.fsWatcher = fsWatcher
	w.startTime = time.Now()

	w.wg.Add(1)
	go w.processEvents()

	return nil
}

// Stop shuts the watcher down, waits for running handlers and returns a
// summary of the session.
func (w *Watcher) Stop() *WatchSummary {
	close(w.done)
	w.wg.Wait()
	w.debouncer.Stop()

	if w.fsWatcher != nil {
		w.fsWatcher.Close()
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	return &WatchSummary{
		Handled:  w.handled,
		Failed:   w.failed,
		Ignored:  w.ignored,
		Duration: time.Since(w.startTime),
	}
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.onChange(event.Name)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) onChange(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	if w.targets[abs] {
		w.debouncer.Add(abs)
		return
	}
	if !w.dirs[filepath.Dir(abs)] {
		return
	}
	if w.filter.ShouldIgnore(abs) {
		w.mu.Lock()
		w.ignored++
		w.mu.Unlock()
		return
	}
	w.debouncer.Add(abs)
}

func (w *Watcher) handle(path string) {
	if w.handler == nil {
		return
	}

	err := w.handler(path)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.failed++
		w.logger.Warn("failed to re-hint file", zap.String("path", path), zap.Error(err))
		return
	}
	w.handled++
	w.logger.Debug("re-hinted file", zap.String("path", path))
}

// Targets returns the absolute files and directories being watched.
func (w *Watcher) Targets() []string {
	out := make([]string, 0, len(w.targets)+len(w.dirs))
	for path := range w.targets {
		out = append(out, path)
	}
	for dir := range w.dirs {
		out = append(out, dir)
	}
	sort.Strings(out)
	return out
}
