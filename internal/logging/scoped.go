// pattern: Imperative Shell

package logging

import (
	"context"
	"log/slog"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerProvider is an interface for obtaining channel loggers.
// Manager implements it for real output; logfake.Store implements it for tests.
type LoggerProvider interface {
	For(channel string) *ScopedLogger
}

// ScopedLogger provides a logger bound to one channel with additional field support.
// This is the public interface returned by Manager.For().
type ScopedLogger struct {
	slog    *slog.Logger
	channel string
}

// NewScopedLogger wraps one or more zap loggers in a ScopedLogger for channel.
// Every record is written to each zap logger, which is how stacks fan out.
// Records below min are dropped.
func NewScopedLogger(channel string, min zapcore.Level, zaps ...*zap.Logger) *ScopedLogger {
	return newScopedLogger(channel, &zapSlogHandler{
		zaps:  zaps,
		level: min,
	})
}

func newScopedLogger(channel string, h *zapSlogHandler) *ScopedLogger {
	return &ScopedLogger{
		slog:    slog.New(h),
		channel: channel,
	}
}

// NopLogger returns a logger that discards all output.
// Use in tests or when logging is not configured.
func NopLogger() *ScopedLogger {
	return &ScopedLogger{
		slog:    nil, // nil slog means all logging is no-op
		channel: "",
	}
}

// Log logs at the given level.
func (l *ScopedLogger) Log(level Level, msg string, args ...any) {
	if l.slog != nil {
		l.slog.Log(context.Background(), level.SlogLevel(), msg, args...)
	}
}

// Emergency logs at EMERGENCY level.
func (l *ScopedLogger) Emergency(msg string, args ...any) { l.Log(LevelEmergency, msg, args...) }

// Alert logs at ALERT level.
func (l *ScopedLogger) Alert(msg string, args ...any) { l.Log(LevelAlert, msg, args...) }

// Critical logs at CRITICAL level.
func (l *ScopedLogger) Critical(msg string, args ...any) { l.Log(LevelCritical, msg, args...) }

// Error logs at ERROR level.
func (l *ScopedLogger) Error(msg string, args ...any) { l.Log(LevelError, msg, args...) }

// Warning logs at WARNING level.
func (l *ScopedLogger) Warning(msg string, args ...any) { l.Log(LevelWarning, msg, args...) }

// Warn is an alias for Warning.
func (l *ScopedLogger) Warn(msg string, args ...any) { l.Log(LevelWarning, msg, args...) }

// Notice logs at NOTICE level.
func (l *ScopedLogger) Notice(msg string, args ...any) { l.Log(LevelNotice, msg, args...) }

// Info logs at INFO level.
func (l *ScopedLogger) Info(msg string, args ...any) { l.Log(LevelInfo, msg, args...) }

// Debug logs at DEBUG level.
func (l *ScopedLogger) Debug(msg string, args ...any) { l.Log(LevelDebug, msg, args...) }

// With returns a new ScopedLogger with the given key-value pairs added to all log entries.
func (l *ScopedLogger) With(args ...any) *ScopedLogger {
	if l.slog == nil {
		return l
	}
	return &ScopedLogger{
		slog:    l.slog.With(args...),
		channel: l.channel,
	}
}

// Channel returns the logger's channel identity.
func (l *ScopedLogger) Channel() string {
	return l.channel
}

// Slog exposes the underlying slog.Logger, or nil for a NopLogger.
func (l *ScopedLogger) Slog() *slog.Logger {
	return l.slog
}
