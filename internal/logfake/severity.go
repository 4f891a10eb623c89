package logfake

// recorder is anything that can record one logging call.
type recorder interface {
	Log(level Level, message any, args ...any)
}

// Logger is the logging surface shared by Store, Channel and Stack.
type Logger interface {
	recorder
	Write(level Level, message any, args ...any)
	Emergency(message any, args ...any)
	Alert(message any, args ...any)
	Critical(message any, args ...any)
	Error(message any, args ...any)
	Warning(message any, args ...any)
	Notice(message any, args ...any)
	Info(message any, args ...any)
	Debug(message any, args ...any)
}

var (
	_ Logger = (*Store)(nil)
	_ Logger = (*Channel)(nil)
	_ Logger = (*Stack)(nil)
)

// severities gives its embedder the eight severity methods on top of a
// recorder.
type severities struct {
	r recorder
}

// Emergency records an emergency entry.
func (s severities) Emergency(message any, args ...any) { s.r.Log(LevelEmergency, message, args...) }

// Alert records an alert entry.
func (s severities) Alert(message any, args ...any) { s.r.Log(LevelAlert, message, args...) }

// Critical records a critical entry.
func (s severities) Critical(message any, args ...any) { s.r.Log(LevelCritical, message, args...) }

// Error records an error entry.
func (s severities) Error(message any, args ...any) { s.r.Log(LevelError, message, args...) }

// Warning records a warning entry.
func (s severities) Warning(message any, args ...any) { s.r.Log(LevelWarning, message, args...) }

// Notice records a notice entry.
func (s severities) Notice(message any, args ...any) { s.r.Log(LevelNotice, message, args...) }

// Info records an info entry.
func (s severities) Info(message any, args ...any) { s.r.Log(LevelInfo, message, args...) }

// Debug records a debug entry.
func (s severities) Debug(message any, args ...any) { s.r.Log(LevelDebug, message, args...) }
