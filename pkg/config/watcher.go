package config

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/getmockd/restmock/pkg/logging"
)

// WatchDelay is the default quiet period before pending changes are reported.
const WatchDelay = time.Second

// EventType classifies a WatchEvent.
type EventType string

// Watch event types.
const (
	EventModified EventType = "modified"
	EventRemoved  EventType = "removed"
)

// WatchEvent represents a resource file change.
type WatchEvent struct {
	Path  string
	Type  EventType
	Error error
}

// Watcher reports changes to the resource files of a DirectoryLoader.
//
// Changes are debounced: events are held until nothing has changed for Delay
// and then delivered once per path, in path order. The last change to a path
// wins, so a file written and then removed is reported as removed.
type Watcher struct {
	loader *DirectoryLoader
	log    *slog.Logger

	// Delay is the quiet period. Set it before calling Start.
	Delay time.Duration

	fsw     *fsnotify.Watcher
	stopCh  chan struct{}
	doneCh  chan struct{}
	eventCh chan WatchEvent
	mu      sync.Mutex
	running bool
}

// NewWatcher creates a watcher for the loader's path.
func NewWatcher(loader *DirectoryLoader, log *slog.Logger) *Watcher {
	return &Watcher{
		loader:  loader,
		log:     logging.OrNop(log),
		Delay:   WatchDelay,
		eventCh: make(chan WatchEvent, 64),
	}
}

// Start begins watching and returns the event channel. Calling Start on a
// running watcher returns the same channel.
func (w *Watcher) Start() (<-chan WatchEvent, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return w.eventCh, nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.addPath(fsw, w.loader.Path); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w.fsw = fsw
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.running = true

	go w.watchLoop(fsw, w.stopCh, w.doneCh)

	w.log.Info("watching resource files", "path", w.loader.Path, "pattern", w.loader.pattern())
	return w.eventCh, nil
}

// Stop stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	close(w.stopCh)
	w.running = false
	doneCh := w.doneCh
	fsw := w.fsw
	w.mu.Unlock()

	<-doneCh
	_ = fsw.Close()
}

// addPath watches path. A file is watched through its directory so that
// editors replacing the file by rename are still seen.
func (w *Watcher) addPath(fsw *fsnotify.Watcher, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	if !info.IsDir() {
		return fsw.Add(filepath.Dir(path))
	}
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return fsw.Add(p)
		}
		return nil
	})
}

func (w *Watcher) watchLoop(fsw *fsnotify.Watcher, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	pending := make(map[string]EventType)
	var timer *time.Timer
	var timerC <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(w.Delay)
		} else {
			timer.Reset(w.Delay)
		}
		timerC = timer.C
	}
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-stopCh:
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if w.handle(fsw, event, pending) {
				schedule()
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.log.Error("watcher error", "error", err)
			w.send(stopCh, WatchEvent{Error: err})

		case <-timerC:
			timerC = nil
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			for _, p := range paths {
				if !w.send(stopCh, WatchEvent{Path: p, Type: pending[p]}) {
					return
				}
				delete(pending, p)
			}
		}
	}
}

// handle records a file system event and reports whether it is relevant.
func (w *Watcher) handle(fsw *fsnotify.Watcher, event fsnotify.Event, pending map[string]EventType) bool {
	if !w.inScope(event.Name) {
		return false
	}

	switch {
	case event.Has(fsnotify.Write) || event.Has(fsnotify.Create):
		info, err := os.Stat(event.Name)
		if err != nil {
			return false
		}
		if info.IsDir() {
			// New directories are watched and their files picked up.
			relevant := false
			_ = filepath.WalkDir(event.Name, func(p string, d fs.DirEntry, err error) error {
				if err != nil {
					return nil
				}
				if d.IsDir() {
					_ = fsw.Add(p)
					return nil
				}
				if w.loader.Match(p) {
					pending[p] = EventModified
					relevant = true
				}
				return nil
			})
			return relevant
		}
		if !w.loader.Match(event.Name) {
			return false
		}
		w.log.Warn("resource file changed", "path", event.Name, "op", event.Op.String())
		pending[event.Name] = EventModified
		return true

	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		// A removed directory cannot be stat'ed any more, so extensionless
		// paths are reported as is and the receiver drops everything below.
		if !w.loader.Match(event.Name) && filepath.Ext(event.Name) != "" {
			return false
		}
		w.log.Warn("resource file removed", "path", event.Name, "op", event.Op.String())
		pending[event.Name] = EventRemoved
		return true
	}
	return false
}

// inScope reports whether name lies at or below the watched path. When the
// loader points at a single file only that file is in scope.
func (w *Watcher) inScope(name string) bool {
	root := filepath.Clean(w.loader.Path)
	name = filepath.Clean(name)
	if info, err := os.Stat(root); err == nil && !info.IsDir() {
		return name == root
	}
	if name == root {
		return true
	}
	rel, err := filepath.Rel(root, name)
	return err == nil && rel != ".." && !filepath.IsAbs(rel) && !startsWithParent(rel)
}

func startsWithParent(rel string) bool {
	return len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator)
}

func (w *Watcher) send(stopCh <-chan struct{}, ev WatchEvent) bool {
	select {
	case w.eventCh <- ev:
		return true
	case <-stopCh:
		return false
	}
}
