// pattern: Functional Core

package logging

import (
	"strings"
	"testing"
	"time"
)

func TestLogEntry_String(t *testing.T) {
	tests := []struct {
		name     string
		entry    LogEntry
		contains []string
	}{
		{
			name: "basic entry",
			entry: LogEntry{
				Timestamp: time.Date(2025, 1, 27, 10, 30, 0, 0, time.UTC),
				Level:     LevelInfo,
				Channel:   "app",
				Message:   "application started",
			},
			contains: []string{"10:30:00", "INFO", "[app]", "application started"},
		},
		{
			name: "entry with fields",
			entry: LogEntry{
				Timestamp: time.Date(2025, 1, 27, 10, 30, 0, 0, time.UTC),
				Level:     LevelCritical,
				Channel:   "stack::ops:daily,slack",
				Message:   "operation failed",
				Fields:    map[string]any{"error": "connection refused"},
			},
			contains: []string{"CRITICAL", "stack::ops:daily,slack", "operation failed", "error=connection refused"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.entry.String()
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("String() = %q, should contain %q", got, want)
				}
			}
		})
	}
}

func TestLogEntry_String_FieldOrder(t *testing.T) {
	entry := LogEntry{
		Level:   LevelInfo,
		Channel: "app",
		Message: "m",
		Fields:  map[string]any{"b": 2, "a": 1, "c": 3},
	}
	got := entry.String()
	if !strings.HasSuffix(got, "m a=1 b=2 c=3") {
		t.Errorf("String() = %q, want fields in key order", got)
	}
}

func TestLogEntry_MatchesChannel(t *testing.T) {
	tests := []struct {
		name    string
		channel string
		prefix  string
		want    bool
	}{
		{name: "empty prefix matches all", channel: "payments", prefix: "", want: true},
		{name: "exact match", channel: "payments", prefix: "payments", want: true},
		{name: "prefix match", channel: "payments.refunds", prefix: "payments", want: true},
		{name: "no match", channel: "payments", prefix: "audit", want: false},
		{name: "stack prefix", channel: "stack::ops:a,b", prefix: "stack::", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := LogEntry{Channel: tt.channel}
			if got := entry.MatchesChannel(tt.prefix); got != tt.want {
				t.Errorf("MatchesChannel(%q) = %v, want %v", tt.prefix, got, tt.want)
			}
		})
	}
}

func TestParseEntryJSON(t *testing.T) {
	line := `{"level":"info","ts":1707235200.5,"logger":"payments","msg":"charged","severity":"notice","amount":12,"caller":"x.go:1"}`

	entry, err := ParseEntryJSON([]byte(line))
	if err != nil {
		t.Fatalf("ParseEntryJSON() error = %v", err)
	}
	if entry.Message != "charged" {
		t.Errorf("Message = %q, want %q", entry.Message, "charged")
	}
	if entry.Channel != "payments" {
		t.Errorf("Channel = %q, want %q", entry.Channel, "payments")
	}
	if entry.Level != LevelNotice {
		t.Errorf("Level = %q, want %q (severity wins over level)", entry.Level, LevelNotice)
	}
	if entry.Timestamp.Unix() != 1707235200 {
		t.Errorf("Timestamp = %v, want unix 1707235200", entry.Timestamp)
	}
	if entry.Fields["amount"] != float64(12) {
		t.Errorf("Fields[amount] = %v, want 12", entry.Fields["amount"])
	}
	for _, key := range []string{"msg", "level", "severity", "logger", "ts", "caller"} {
		if _, ok := entry.Fields[key]; ok {
			t.Errorf("Fields should not contain %q", key)
		}
	}
}

func TestParseEntryJSON_Defaults(t *testing.T) {
	entry, err := ParseEntryJSON([]byte(`{"msg":"bare"}`))
	if err != nil {
		t.Fatalf("ParseEntryJSON() error = %v", err)
	}
	if entry.Level != LevelInfo {
		t.Errorf("Level = %q, want %q", entry.Level, LevelInfo)
	}
	if entry.Channel != "" {
		t.Errorf("Channel = %q, want empty so readers apply their own default", entry.Channel)
	}
}

func TestParseEntryJSON_Invalid(t *testing.T) {
	for _, input := range []string{"", "not json", `{"msg": `} {
		if _, err := ParseEntryJSON([]byte(input)); err == nil {
			t.Errorf("ParseEntryJSON(%q) expected error", input)
		}
	}
}
