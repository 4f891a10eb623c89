// pattern: Imperative Shell

package logging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"logfake/internal/channel"
)

// DefaultChannel is used when no default channel is configured.
const DefaultChannel = "app"

// Config holds configuration for the Manager.
type Config struct {
	FilePath       string              // Path to log file
	MaxSizeMB      int                 // Max size in MB before rotation
	MaxBackups     int                 // Max number of old log files to keep
	MaxAgeDays     int                 // Max days to keep old log files
	Level          string              // Minimum log level (debug, info, notice, warning, error, ...)
	ChannelBufSize int                 // Buffer size for the entry channel (default 1000)
	DefaultChannel string              // Channel used when none is named (default "app")
	Stacks         map[string][]string // Named channels that fan out to member channels
}

// Manager manages channel loggers with dual output (file + channel).
type Manager struct {
	baseZap        *zap.Logger
	channelSink    *ChannelSink
	fileWriter     *lumberjack.Logger
	loggers        map[string]*ScopedLogger
	forgotten      map[string]int
	onDemand       []*lumberjack.Logger
	stacks         map[string][]string
	shared         *sharedContext
	encoderCfg     zapcore.EncoderConfig
	defaultChannel string
	mu             sync.RWMutex
	level          zapcore.Level
}

// NewManager creates a new log manager with the given configuration.
func NewManager(cfg Config) (*Manager, error) {
	// Validate required configuration
	if cfg.FilePath == "" {
		return nil, fmt.Errorf("FilePath is required")
	}

	// Set defaults
	if cfg.ChannelBufSize == 0 {
		cfg.ChannelBufSize = 1000
	}
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxBackups == 0 {
		cfg.MaxBackups = 5
	}
	if cfg.MaxAgeDays == 0 {
		cfg.MaxAgeDays = 7
	}

	// Unknown or empty levels fall back to info
	level := ParseLevel(cfg.Level).ZapLevel()

	// Ensure log directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
		return nil, err
	}

	// Create file writer with rotation
	fileWriter := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}

	channelSink := NewChannelSink(cfg.ChannelBufSize)
	encoderCfg := newEncoderConfig()

	// File core (JSON)
	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(fileWriter),
		level,
	)

	// Channel core (JSON for parsing)
	channelCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(channelSink),
		level,
	)

	stacks := make(map[string][]string, len(cfg.Stacks))
	for name, members := range cfg.Stacks {
		stacks[name] = append([]string(nil), members...)
	}

	return &Manager{
		baseZap:        zap.New(zapcore.NewTee(fileCore, channelCore)),
		channelSink:    channelSink,
		fileWriter:     fileWriter,
		loggers:        make(map[string]*ScopedLogger),
		forgotten:      make(map[string]int),
		stacks:         stacks,
		shared:         &sharedContext{},
		encoderCfg:     encoderCfg,
		defaultChannel: channel.Resolve(cfg.DefaultChannel, DefaultChannel),
		level:          level,
	}, nil
}

func newEncoderConfig() zapcore.EncoderConfig {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.EpochTimeEncoder
	encoderCfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	return encoderCfg
}

// For returns a logger for the given channel, or the default channel when
// name is empty. Loggers are cached and reused for the same channel until
// the channel is forgotten. Names configured as stacks fan out to their members.
func (m *Manager) For(name string) *ScopedLogger {
	m.mu.RLock()
	name = channel.Resolve(name, m.defaultChannel)
	if logger, ok := m.loggers[name]; ok {
		m.mu.RUnlock()
		return logger
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if logger, ok := m.loggers[name]; ok {
		return logger
	}

	var logger *ScopedLogger
	if members, ok := m.stacks[name]; ok {
		logger = m.newLogger(name, m.namedLoggers(members)...)
	} else {
		logger = m.newLogger(name, m.baseZap.Named(name))
	}

	m.loggers[name] = logger
	return logger
}

// Channel is an alias for For.
func (m *Manager) Channel(name string) *ScopedLogger {
	return m.For(name)
}

// Stack returns a logger that writes every record to each member channel.
// Stacks are built fresh on every call and never cached.
func (m *Manager) Stack(members []string, label string) *ScopedLogger {
	return m.newLogger(channel.Stack(members, label), m.namedLoggers(members)...)
}

// Build returns a logger for an on-demand channel described by cfg. When cfg
// has a "path" entry the channel gets its own rotated file; otherwise it
// writes through the manager's outputs.
func (m *Manager) Build(cfg map[string]any) (*ScopedLogger, error) {
	name, err := channel.OnDemand(cfg)
	if err != nil {
		return nil, err
	}

	path, ok := cfg["path"].(string)
	if !ok || path == "" {
		return m.newLogger(name, m.baseZap.Named(name)), nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create on-demand log directory: %w", err)
	}
	writer := &lumberjack.Logger{Filename: path, MaxSize: 10, Compress: true}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(m.encoderCfg), zapcore.AddSync(writer), m.level)

	m.mu.Lock()
	m.onDemand = append(m.onDemand, writer)
	m.mu.Unlock()

	return m.newLogger(name, zap.New(core).Named(name)), nil
}

// WithContext binds key-value pairs to every future record of the channel.
func (m *Manager) WithContext(name string, args ...any) *ScopedLogger {
	logger := m.For(name).With(args...)

	m.mu.Lock()
	m.loggers[channel.Resolve(name, m.defaultChannel)] = logger
	m.mu.Unlock()

	return logger
}

// WithoutContext drops context bound with WithContext. Loggers already handed
// out keep theirs.
func (m *Manager) WithoutContext(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.loggers, channel.Resolve(name, m.defaultChannel))
}

// ShareContext adds key-value pairs to every record of every channel,
// including loggers handed out before the call.
func (m *Manager) ShareContext(args ...any) {
	m.shared.add(args...)
}

// ForgetChannel drops the cached logger for name and its bound context.
func (m *Manager) ForgetChannel(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	name = channel.Resolve(name, m.defaultChannel)
	delete(m.loggers, name)
	m.forgotten[name]++
}

// ForgetCount returns how many times name has been forgotten.
func (m *Manager) ForgetCount(name string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.forgotten[channel.Resolve(name, m.defaultChannel)]
}

// Cleanup forgets every cached channel with the given prefix.
func (m *Manager) Cleanup(prefix string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for name := range m.loggers {
		if strings.HasPrefix(name, prefix) {
			delete(m.loggers, name)
			m.forgotten[name]++
		}
	}
}

// SetDefaultChannel changes the channel used when none is named.
func (m *Manager) SetDefaultChannel(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultChannel = channel.Resolve(name, DefaultChannel)
}

// DefaultChannel returns the channel used when none is named.
func (m *Manager) DefaultChannel() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultChannel
}

// Entries returns the channel for consuming log entries.
func (m *Manager) Entries() <-chan LogEntry {
	return m.channelSink.Entries()
}

// Sync flushes all buffered logs.
func (m *Manager) Sync() error {
	return m.baseZap.Sync()
}

// Close syncs and closes all resources.
func (m *Manager) Close() error {
	_ = m.Sync()
	_ = m.channelSink.Close()

	m.mu.Lock()
	defer m.mu.Unlock()

	errs := []error{m.fileWriter.Close()}
	for _, w := range m.onDemand {
		errs = append(errs, w.Close())
	}
	return errors.Join(errs...)
}

func (m *Manager) newLogger(name string, zaps ...*zap.Logger) *ScopedLogger {
	return newScopedLogger(name, &zapSlogHandler{
		zaps:   zaps,
		level:  m.level,
		shared: m.shared,
	})
}

// namedLoggers returns one zap logger per member channel. Members that are
// themselves configured stacks are not expanded.
func (m *Manager) namedLoggers(members []string) []*zap.Logger {
	zaps := make([]*zap.Logger, len(members))
	for i, member := range members {
		zaps[i] = m.baseZap.Named(member)
	}
	return zaps
}
