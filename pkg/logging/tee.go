package logging

import (
	"context"
	"errors"
	"log/slog"
)

// teeHandler sends every record to the console handler and to a copy, such as
// the JSON log file. The copy sees the same attributes and groups.
type teeHandler struct {
	console slog.Handler
	copy    slog.Handler
}

func (h *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.console.Enabled(ctx, level) || h.copy.Enabled(ctx, level)
}

// Handle writes r to both handlers. A failing console does not stop the copy.
func (h *teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	if h.console.Enabled(ctx, r.Level) {
		errs = append(errs, h.console.Handle(ctx, r.Clone()))
	}
	if h.copy.Enabled(ctx, r.Level) {
		errs = append(errs, h.copy.Handle(ctx, r))
	}
	return errors.Join(errs...)
}

func (h *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &teeHandler{console: h.console.WithAttrs(attrs), copy: h.copy.WithAttrs(attrs)}
}

func (h *teeHandler) WithGroup(name string) slog.Handler {
	return &teeHandler{console: h.console.WithGroup(name), copy: h.copy.WithGroup(name)}
}
