package route

import (
	"errors"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/getmockd/restmock/pkg/config"
	"github.com/getmockd/restmock/pkg/logging"
	"github.com/getmockd/restmock/pkg/stateful"
)

// Entry is one loaded resource file and the routes it contributes.
type Entry struct {
	Path string
	File *config.File

	// Resource serves the restful routes. It is nil when the file declares
	// no restful base path.
	Resource *stateful.Resource

	// Routes holds the accepted routes in build order.
	Routes []Route

	// Rejected holds the routes that collided with the table.
	Rejected []*ConflictError
}

// Registry holds the route table of every loaded file.
//
// Method+path pairs are unique across the table and a restful base path
// belongs to one file at a time. A route breaking either rule is rejected and
// logged while the rest of its file is kept.
type Registry struct {
	mu        sync.RWMutex
	entries   map[string]*Entry
	log       *slog.Logger
	observer  stateful.Observer
	listeners []func()
}

// NewRegistry creates an empty registry. A nil log discards output.
func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		entries: make(map[string]*Entry),
		log:     logging.OrNop(log),
	}
}

// SetObserver sets the observer given to every resource, including the ones
// already loaded.
func (r *Registry) SetObserver(o stateful.Observer) {
	r.mu.Lock()
	r.observer = o
	for _, e := range r.entries {
		if e.Resource != nil {
			e.Resource.SetObserver(o)
		}
	}
	r.mu.Unlock()
}

// OnChange registers fn to be called after the table changes.
func (r *Registry) OnChange(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// Load reads the file at path and adds it, replacing any previous entry for
// the same path. When the file cannot be loaded the previous entry is
// dropped and the error returned.
func (r *Registry) Load(path string) (*Entry, error) {
	file, err := config.LoadFile(path)
	if err != nil {
		r.log.Error("load config failed", "path", path, "error", err)
		if r.remove(path) {
			r.notify()
		}
		return nil, err
	}
	return r.Add(file), nil
}

// LoadAll loads every file the loader finds. Files that fail to load are
// logged and skipped; their errors are joined in the result.
func (r *Registry) LoadAll(loader *config.DirectoryLoader) error {
	matched, ignored, err := loader.Files()
	if err != nil {
		return err
	}
	for _, p := range ignored {
		r.log.Warn("ignore file, not a resource file", "path", p, "pattern", loader.Pattern)
	}

	var errs []error
	for _, p := range matched {
		if _, err := r.Load(p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Add builds the routes of file and stores the entry under file.Path,
// cleaned so that a reload through another spelling of the same path
// replaces the entry.
func (r *Registry) Add(file *config.File) *Entry {
	file.Path = cleanPath(file.Path)
	r.mu.Lock()
	if _, ok := r.entries[file.Path]; ok {
		r.log.Debug("delete old config", "path", file.Path)
		delete(r.entries, file.Path)
	}

	r.log.Info("loading config", "path", file.Path)
	for _, field := range file.UnsupportedRules() {
		r.log.Warn("rule type not supported, rule skipped",
			"path", file.Path, "field", field, "type", file.Rules[field].Type)
	}

	entry := &Entry{Path: file.Path, File: file}
	if file.Restful != "" {
		entry.Resource = stateful.NewResource(file, r.log.With("resource", file.Restful))
		if r.observer != nil {
			entry.Resource.SetObserver(r.observer)
		}
	}

	for _, rt := range Build(file) {
		if cerr := r.check(rt, entry); cerr != nil {
			r.log.Error("append route failed", "path", file.Path, "error", cerr)
			entry.Rejected = append(entry.Rejected, cerr)
			continue
		}
		entry.Routes = append(entry.Routes, rt)
		r.log.Debug("config add route", "method", rt.Method, "route", rt.Path)
	}

	r.entries[file.Path] = entry
	r.mu.Unlock()

	r.notify()
	return entry
}

// check returns the conflict rt would cause. The caller must hold the lock.
func (r *Registry) check(rt Route, entry *Entry) *ConflictError {
	for _, e := range r.sortedLocked() {
		if rt.Restful != "" && e.File.Restful == rt.Restful {
			return &ConflictError{Kind: DuplicateRestful, Method: rt.Method, Path: rt.Restful, Owner: e.Path}
		}
		if slices.ContainsFunc(e.Routes, func(o Route) bool { return o.Key() == rt.Key() }) {
			return &ConflictError{Kind: DuplicateRoute, Method: rt.Method, Path: rt.Path, Owner: e.Path}
		}
	}
	if slices.ContainsFunc(entry.Routes, func(o Route) bool { return o.Key() == rt.Key() }) {
		return &ConflictError{Kind: DuplicateRoute, Method: rt.Method, Path: rt.Path, Owner: entry.Path}
	}
	return nil
}

// Unload drops the entry for path, and every entry below path when it names
// a directory. It reports whether anything was dropped.
func (r *Registry) Unload(path string) bool {
	if !r.remove(path) {
		return false
	}
	r.notify()
	return true
}

func (r *Registry) remove(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	path = cleanPath(path)
	prefix := path + string(filepath.Separator)
	removed := false
	for p := range r.entries {
		if p == path || strings.HasPrefix(p, prefix) {
			delete(r.entries, p)
			r.log.Info("unload config", "path", p)
			removed = true
		}
	}
	return removed
}

// Get returns the entry for path.
func (r *Registry) Get(path string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[cleanPath(path)]
	return e, ok
}

// Entries returns every entry ordered by path.
func (r *Registry) Entries() []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedLocked()
}

// Len returns the number of loaded files.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Rejected returns the conflicts of every entry, ordered by file path.
func (r *Registry) Rejected() []*ConflictError {
	var out []*ConflictError
	for _, e := range r.Entries() {
		out = append(out, e.Rejected...)
	}
	return out
}

func (r *Registry) sortedLocked() []*Entry {
	out := make([]*Entry, 0, len(r.entries))
	for _, p := range slices.Sorted(maps.Keys(r.entries)) {
		out = append(out, r.entries[p])
	}
	return out
}

func (r *Registry) notify() {
	r.mu.RLock()
	listeners := slices.Clone(r.listeners)
	r.mu.RUnlock()
	for _, fn := range listeners {
		fn()
	}
}

func cleanPath(p string) string {
	if p == "" {
		return p
	}
	return filepath.Clean(p)
}
