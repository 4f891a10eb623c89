// pattern: Imperative Shell

package logfake

import (
	"slices"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"logfake/internal/channel"
	"logfake/internal/logging"
)

var _ logging.LoggerProvider = (*Store)(nil)

// recordingCore is a zapcore.Core that records every entry into one channel
// of a Store.
type recordingCore struct {
	store   *Store
	channel string
	fields  []zapcore.Field
}

func (c *recordingCore) Enabled(zapcore.Level) bool { return true }

func (c *recordingCore) With(fields []zapcore.Field) zapcore.Core {
	return &recordingCore{
		store:   c.store,
		channel: c.channel,
		fields:  append(slices.Clone(c.fields), fields...),
	}
}

func (c *recordingCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	return ce.AddCore(ent, c)
}

// Write records ent. A severity field written by a ScopedLogger wins over
// the zap level, which cannot express notice, critical, alert or emergency.
func (c *recordingCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range c.fields {
		f.AddTo(enc)
	}
	for _, f := range fields {
		f.AddTo(enc)
	}

	level := logging.LevelFromZap(ent.Level)
	if sev, ok := enc.Fields[logging.SeverityKey].(string); ok {
		level = logging.ParseLevel(sev)
		delete(enc.Fields, logging.SeverityKey)
	}

	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	c.store.proxy(c.channel, func() {
		c.store.record(level, ent.Message, []any{Context(enc.Fields)})
	})
	return nil
}

func (c *recordingCore) Sync() error { return nil }

// Core returns a zapcore.Core recording into the named channel, or the
// default channel when name is empty.
func (s *Store) Core(name string) zapcore.Core {
	return &recordingCore{store: s, channel: channel.Resolve(name, s.DefaultDriver())}
}

// ZapLogger returns a zap.Logger recording into the named channel.
func (s *Store) ZapLogger(name string) *zap.Logger {
	return zap.New(s.Core(name))
}

// For returns a ScopedLogger recording into the named channel, so a Store
// can stand in for a logging.Manager wherever a logging.LoggerProvider is
// accepted.
func (s *Store) For(name string) *logging.ScopedLogger {
	name = channel.Resolve(name, s.DefaultDriver())
	return logging.NewScopedLogger(name, zapcore.DebugLevel, s.ZapLogger(name))
}
