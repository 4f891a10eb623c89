// pattern: Imperative Shell

package logging

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// sharedContext holds attributes added to every record of every channel.
// Handlers read it at write time so context shared later still applies to
// loggers handed out earlier.
type sharedContext struct {
	mu    sync.RWMutex
	attrs []slog.Attr
}

// add appends slog-style key/value args. Later keys win on conflict because
// they are written after earlier ones.
func (s *sharedContext) add(args ...any) {
	attrs := argsToAttrs(args)
	s.mu.Lock()
	s.attrs = append(s.attrs, attrs...)
	s.mu.Unlock()
}

func (s *sharedContext) snapshot() []slog.Attr {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.attrs)
}

// argsToAttrs converts alternating key/value pairs the way slog does.
func argsToAttrs(args []any) []slog.Attr {
	return slog.Group("", args...).Value.Group()
}

// zapSlogHandler adapts one or more zap.Loggers to the slog.Handler interface.
type zapSlogHandler struct {
	zaps   []*zap.Logger
	level  zapcore.Level
	shared *sharedContext
	attrs  []slog.Attr
	groups []string
}

func (h *zapSlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return LevelFromSlog(level).ZapLevel() >= h.level
}

func (h *zapSlogHandler) Handle(_ context.Context, r slog.Record) error {
	shared := h.shared.snapshot()
	fields := make([]zap.Field, 0, len(shared)+len(h.attrs)+r.NumAttrs()+1)

	// Shared attrs first, then handler attrs, then record attrs
	for _, attr := range shared {
		fields = append(fields, zap.Any(attr.Key, attr.Value.Any()))
	}
	for _, attr := range h.attrs {
		fields = append(fields, zap.Any(attr.Key, attr.Value.Any()))
	}
	r.Attrs(func(attr slog.Attr) bool {
		fields = append(fields, zap.Any(attr.Key, attr.Value.Any()))
		return true
	})

	level := LevelFromSlog(r.Level)
	fields = append(fields, zap.String(SeverityKey, string(level)))

	for _, z := range h.zaps {
		if ce := z.Check(level.ZapLevel(), r.Message); ce != nil {
			ce.Write(fields...)
		}
	}

	return nil
}

func (h *zapSlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	copy(newAttrs[len(h.attrs):], attrs)
	return &zapSlogHandler{
		zaps:   h.zaps,
		level:  h.level,
		shared: h.shared,
		attrs:  newAttrs,
		groups: h.groups,
	}
}

func (h *zapSlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	newGroups := make([]string, len(h.groups)+1)
	copy(newGroups, h.groups)
	newGroups[len(h.groups)] = name

	named := make([]*zap.Logger, len(h.zaps))
	for i, z := range h.zaps {
		named[i] = z.Named(name)
	}
	return &zapSlogHandler{
		zaps:   named,
		level:  h.level,
		shared: h.shared,
		attrs:  h.attrs,
		groups: newGroups,
	}
}
