// pattern: Functional Core

package logging

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

// SeverityKey is the field that carries the exact severity on JSON log lines.
// zap's own "level" field cannot express notice, critical, alert or emergency.
const SeverityKey = "severity"

// LogEntry represents a structured log entry read back from JSON log output.
type LogEntry struct {
	Timestamp time.Time      `json:"timestamp"`        // When the log was created
	Level     Level          `json:"level"`            // Severity
	Channel   string         `json:"channel"`          // Channel identity (zap logger name), empty for an unnamed logger
	Message   string         `json:"message"`          // Log message
	Fields    map[string]any `json:"fields,omitempty"` // Additional structured fields
}

// String returns a human-readable representation of the log entry.
// Fields are printed in key order.
func (e LogEntry) String() string {
	var sb strings.Builder
	sb.WriteString(e.Timestamp.Format("15:04:05"))
	sb.WriteString(" ")
	sb.WriteString(strings.ToUpper(string(e.Level)))
	sb.WriteString(" ")
	sb.WriteString("[")
	sb.WriteString(e.Channel)
	sb.WriteString("] ")
	sb.WriteString(e.Message)

	for _, k := range slices.Sorted(maps.Keys(e.Fields)) {
		fmt.Fprintf(&sb, " %s=%v", k, e.Fields[k])
	}

	return sb.String()
}

// MatchesChannel returns true if the entry's channel starts with the given prefix.
// An empty prefix matches all entries.
func (e LogEntry) MatchesChannel(prefix string) bool {
	if prefix == "" {
		return true
	}
	return strings.HasPrefix(e.Channel, prefix)
}

// ParseEntryJSON converts one JSON log line written by a Manager into a LogEntry.
func ParseEntryJSON(data []byte) (LogEntry, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return LogEntry{}, fmt.Errorf("failed to parse log entry JSON: %w", err)
	}

	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     LevelInfo,
		Fields:    make(map[string]any),
	}

	if msg, ok := raw["msg"].(string); ok {
		entry.Message = msg
	}
	if level, ok := raw["level"].(string); ok {
		entry.Level = ParseLevel(level)
	}
	if severity, ok := raw[SeverityKey].(string); ok {
		entry.Level = ParseLevel(severity)
	}
	if logger, ok := raw["logger"].(string); ok {
		entry.Channel = logger
	}

	// Parse timestamp if present, preserving nanosecond precision
	if ts, ok := raw["ts"].(float64); ok {
		sec := int64(ts)
		nsec := int64((ts - float64(sec)) * 1e9)
		entry.Timestamp = time.Unix(sec, nsec)
	}

	for _, key := range []string{"msg", "level", SeverityKey, "logger", "ts", "caller", "stacktrace"} {
		delete(raw, key)
	}
	maps.Copy(entry.Fields, raw)

	return entry, nil
}
