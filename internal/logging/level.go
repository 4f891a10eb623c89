// pattern: Functional Core

package logging

import (
	"log/slog"
	"strings"

	"go.uber.org/zap/zapcore"
)

// Level is a log severity. The zero value is not a valid level.
type Level string

// The eight conventional severities, most severe first.
const (
	LevelEmergency Level = "emergency"
	LevelAlert     Level = "alert"
	LevelCritical  Level = "critical"
	LevelError     Level = "error"
	LevelWarning   Level = "warning"
	LevelNotice    Level = "notice"
	LevelInfo      Level = "info"
	LevelDebug     Level = "debug"
)

// slog has no notice/critical/alert/emergency; these sit between and above
// its built-in levels.
const (
	slogLevelNotice    = slog.Level(2)
	slogLevelCritical  = slog.Level(12)
	slogLevelAlert     = slog.Level(16)
	slogLevelEmergency = slog.Level(20)
)

// Levels returns every severity, most severe first.
func Levels() []Level {
	return []Level{
		LevelEmergency, LevelAlert, LevelCritical, LevelError,
		LevelWarning, LevelNotice, LevelInfo, LevelDebug,
	}
}

// String makes Level satisfy the fmt.Stringer interface.
func (l Level) String() string {
	return string(l)
}

// SlogLevel maps the severity onto a slog.Level.
func (l Level) SlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelNotice:
		return slogLevelNotice
	case LevelWarning:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	case LevelCritical:
		return slogLevelCritical
	case LevelAlert:
		return slogLevelAlert
	case LevelEmergency:
		return slogLevelEmergency
	default:
		return slog.LevelInfo
	}
}

// ZapLevel maps the severity onto a zap level. Severities above error map to
// error: zap's panic and fatal levels would end the process.
func (l Level) ZapLevel() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelInfo, LevelNotice:
		return zapcore.InfoLevel
	case LevelWarning:
		return zapcore.WarnLevel
	case LevelError, LevelCritical, LevelAlert, LevelEmergency:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// LevelFromSlog returns the severity closest to a slog.Level, rounding down.
func LevelFromSlog(level slog.Level) Level {
	switch {
	case level >= slogLevelEmergency:
		return LevelEmergency
	case level >= slogLevelAlert:
		return LevelAlert
	case level >= slogLevelCritical:
		return LevelCritical
	case level >= slog.LevelError:
		return LevelError
	case level >= slog.LevelWarn:
		return LevelWarning
	case level >= slogLevelNotice:
		return LevelNotice
	case level >= slog.LevelInfo:
		return LevelInfo
	default:
		return LevelDebug
	}
}

// LevelFromZap returns the severity for a zap level.
func LevelFromZap(level zapcore.Level) Level {
	switch level {
	case zapcore.DebugLevel:
		return LevelDebug
	case zapcore.InfoLevel:
		return LevelInfo
	case zapcore.WarnLevel:
		return LevelWarning
	case zapcore.ErrorLevel:
		return LevelError
	case zapcore.DPanicLevel:
		return LevelCritical
	case zapcore.PanicLevel:
		return LevelAlert
	case zapcore.FatalLevel:
		return LevelEmergency
	default:
		return LevelInfo
	}
}

// LookupLevel normalizes a level name. Common abbreviations are accepted.
func LookupLevel(name string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "notice":
		return LevelNotice, true
	case "warn", "warning":
		return LevelWarning, true
	case "err", "error":
		return LevelError, true
	case "crit", "critical", "dpanic":
		return LevelCritical, true
	case "alert", "panic":
		return LevelAlert, true
	case "emerg", "emergency", "fatal":
		return LevelEmergency, true
	default:
		return "", false
	}
}

// ParseLevel normalizes a level name.
// Returns LevelInfo for unknown levels.
func ParseLevel(name string) Level {
	if level, ok := LookupLevel(name); ok {
		return level
	}
	return LevelInfo
}
