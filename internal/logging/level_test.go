// pattern: Functional Core

package logging

import (
	"log/slog"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"notice", LevelNotice},
		{"warn", LevelWarning},
		{"warning", LevelWarning},
		{"error", LevelError},
		{"crit", LevelCritical},
		{"alert", LevelAlert},
		{"emerg", LevelEmergency},
		{"fatal", LevelEmergency},
		{" Error ", LevelError},
		{"unknown", LevelInfo},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLookupLevel_Unknown(t *testing.T) {
	if _, ok := LookupLevel("verbose"); ok {
		t.Error("LookupLevel(verbose) ok = true, want false")
	}
}

func TestLevel_SlogRoundTrip(t *testing.T) {
	for _, level := range Levels() {
		if got := LevelFromSlog(level.SlogLevel()); got != level {
			t.Errorf("LevelFromSlog(%q.SlogLevel()) = %q", level, got)
		}
	}
}

func TestLevel_SlogOrdering(t *testing.T) {
	levels := Levels()
	for i := 1; i < len(levels); i++ {
		if levels[i-1].SlogLevel() <= levels[i].SlogLevel() {
			t.Errorf("%q should be more severe than %q", levels[i-1], levels[i])
		}
	}
}

func TestLevelFromSlog_RoundsDown(t *testing.T) {
	if got := LevelFromSlog(slog.LevelWarn + 1); got != LevelWarning {
		t.Errorf("LevelFromSlog(WARN+1) = %q, want %q", got, LevelWarning)
	}
	if got := LevelFromSlog(slog.LevelDebug - 4); got != LevelDebug {
		t.Errorf("LevelFromSlog(DEBUG-4) = %q, want %q", got, LevelDebug)
	}
}

func TestLevel_ZapLevel(t *testing.T) {
	tests := []struct {
		level Level
		want  zapcore.Level
	}{
		{LevelDebug, zapcore.DebugLevel},
		{LevelInfo, zapcore.InfoLevel},
		{LevelNotice, zapcore.InfoLevel},
		{LevelWarning, zapcore.WarnLevel},
		{LevelError, zapcore.ErrorLevel},
		{LevelEmergency, zapcore.ErrorLevel},
		{Level("bogus"), zapcore.InfoLevel},
	}

	for _, tt := range tests {
		if got := tt.level.ZapLevel(); got != tt.want {
			t.Errorf("%q.ZapLevel() = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestLevelFromZap(t *testing.T) {
	if got := LevelFromZap(zapcore.WarnLevel); got != LevelWarning {
		t.Errorf("LevelFromZap(warn) = %q, want %q", got, LevelWarning)
	}
	if got := LevelFromZap(zapcore.FatalLevel); got != LevelEmergency {
		t.Errorf("LevelFromZap(fatal) = %q, want %q", got, LevelEmergency)
	}
}
