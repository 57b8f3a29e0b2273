package engine

import (
	"context"
	"fmt"

	"github.com/getmockd/restmock/pkg/config"
)

// Watch starts w and applies its events to the registry until ctx is done.
// The watcher is stopped when ctx is done.
func (s *Server) Watch(ctx context.Context, w *config.Watcher) error {
	events, err := w.Start()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}

	go func() {
		defer w.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				s.Apply(ev)
			}
		}
	}()
	return nil
}

// Apply updates the registry for one watcher event. A modified file is
// reloaded, a removed file or directory is unloaded.
func (s *Server) Apply(ev config.WatchEvent) {
	if ev.Error != nil {
		// Already logged by the watcher.
		return
	}
	switch ev.Type {
	case config.EventModified:
		s.log.Info("reload config", "path", ev.Path)
		// Load failures are logged by the registry and drop the old entry.
		_, _ = s.registry.Load(ev.Path)
	case config.EventRemoved:
		if !s.registry.Unload(ev.Path) {
			s.log.Debug("removed path was not loaded", "path", ev.Path)
		}
	}
}
