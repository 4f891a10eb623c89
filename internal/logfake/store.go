// pattern: Imperative Shell

package logfake

import (
	"maps"
	"sync"

	"github.com/stretchr/testify/require"

	"logfake/internal/channel"
	"logfake/internal/config"
	"logfake/internal/logging"
)

// TestingT is the failure reporter assertions report to. *testing.T
// satisfies it.
type TestingT = require.TestingT

// ConfigRepository is the configuration collaborator the store reads the
// default channel name from. *config.Repository satisfies it.
type ConfigRepository interface {
	Get(key string) any
	Set(key string, value any) error
}

// Option configures a Store.
type Option func(*Store)

// WithConfig makes the store read and write the default channel through repo.
func WithConfig(repo ConfigRepository) Option {
	return func(s *Store) { s.config = repo }
}

// WithPrinter replaces the sink Dump and DumpAll write to.
func WithPrinter(p Printer) Option {
	return func(s *Store) { s.printer = p }
}

// Store is an in-memory logger that records every entry for later
// assertions. A Store is safe for concurrent use. Queries copy what they need
// under the lock and run predicates and printers without it, so those may
// call back into the store.
type Store struct {
	severities

	t       TestingT
	config  ConfigRepository
	printer Printer

	mu        sync.Mutex
	entries   []Entry
	marker    *string
	contexts  map[string]Context
	shared    Context
	forgotten map[string]int
	channels  map[string]*Channel
}

// New returns an empty Store reporting failures to t.
func New(t TestingT, opts ...Option) *Store {
	s := &Store{t: t}
	s.severities = severities{r: s}
	s.resetState()
	for _, opt := range opts {
		opt(s)
	}
	if s.config == nil {
		s.config = config.NewRepository(map[string]any{
			"logging": map[string]any{"default": logging.DefaultChannel},
		})
	}
	if s.printer == nil {
		s.printer = NewYAMLPrinter(nil)
	}
	return s
}

func (s *Store) resetState() {
	s.entries = nil
	s.marker = nil
	s.contexts = make(map[string]Context)
	s.shared = make(Context)
	s.forgotten = make(map[string]int)
	s.channels = make(map[string]*Channel)
}

// Reset drops every entry, context, forget count and resolved channel. The
// configured default channel is kept.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetState()
}

// Log records an entry in the current channel.
func (s *Store) Log(level Level, message any, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(level, message, args)
}

// record appends an entry tagged with the current channel. s.mu must be held.
func (s *Store) record(level Level, message any, args []any) {
	name := s.currentChannel()
	s.entries = append(s.entries, Entry{
		Level:          level,
		Message:        message,
		Context:        merge(s.shared, s.contexts[name], argsToContext(args)),
		TimesForgotten: s.forgotten[name],
		Channel:        name,
	})
}

// Write is an alias for Log.
func (s *Store) Write(level Level, message any, args ...any) {
	s.Log(level, message, args...)
}

// proxy runs fn with name as the current channel and restores the previous
// current channel afterwards, even if fn panics. s.mu must be held.
func (s *Store) proxy(name string, fn func()) {
	prev := s.marker
	s.marker = &name
	defer func() { s.marker = prev }()
	fn()
}

// CurrentChannel returns the channel being logged to, or the default channel
// outside of a channel call.
func (s *Store) CurrentChannel() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentChannel()
}

func (s *Store) currentChannel() string {
	if s.marker != nil {
		return *s.marker
	}
	return s.DefaultDriver()
}

// DefaultDriver returns the configured default channel name.
func (s *Store) DefaultDriver() string {
	name, _ := s.config.Get(config.DefaultChannelKey).(string)
	return name
}

// SetDefaultDriver changes the configured default channel name.
func (s *Store) SetDefaultDriver(name string) error {
	return s.config.Set(config.DefaultChannelKey, name)
}

// Channel returns the handle for name, or for the default channel when name
// is empty. Handles are memoized until the channel is forgotten.
func (s *Store) Channel(name string) *Channel {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = channel.Resolve(name, s.DefaultDriver())
	if ch, ok := s.channels[name]; ok {
		return ch
	}
	ch := newChannel(s, name)
	s.channels[name] = ch
	return ch
}

// Driver is an alias for Channel.
func (s *Store) Driver(name string) *Channel {
	return s.Channel(name)
}

// Stack returns a handle over the union of members. The stack's name does
// not depend on member order. Each call starts the stack with an empty
// context; entries written through earlier handles are kept.
func (s *Store) Stack(members []string, label string) *Stack {
	name := channel.Stack(members, label)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.contexts, name)
	return newStack(s, name)
}

// Build returns a handle for an on-demand channel identified by cfg.
func (s *Store) Build(cfg map[string]any) (*Channel, error) {
	name, err := channel.OnDemand(cfg)
	if err != nil {
		return nil, err
	}
	return newChannel(s, name), nil
}

// ForgetChannel clears the channel's context and memoized handle and bumps its
// forget count. Entries are kept.
func (s *Store) ForgetChannel(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = channel.Resolve(name, s.DefaultDriver())
	s.forgotten[name]++
	delete(s.contexts, name)
	delete(s.channels, name)
}

// ShareContext merges ctx into the context shared by every channel.
func (s *Store) ShareContext(ctx Context) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shared = merge(s.shared, ctx)
	return s
}

// SharedContext returns a copy of the shared context.
func (s *Store) SharedContext() Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return merge(s.shared)
}

// WithContext merges ctx into the current channel's context.
func (s *Store) WithContext(ctx Context) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.withContext(s.currentChannel(), ctx)
	return s
}

// WithoutContext clears the current channel's context.
func (s *Store) WithoutContext() *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.contexts, s.currentChannel())
	return s
}

func (s *Store) withContext(name string, ctx Context) {
	s.contexts[name] = merge(s.contexts[name], ctx)
}

func (s *Store) currentContext(name string) Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return merge(s.contexts[name])
}

// AllEntries returns every recorded entry in write order.
func (s *Store) AllEntries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneEntries(s.entries, "")
}

// Entries returns the current channel's entries in write order.
func (s *Store) Entries() []Entry {
	return s.snapshot(s.CurrentChannel())
}

// snapshot returns copies of name's entries.
func (s *Store) snapshot(name string) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneEntries(s.entries, name)
}

// cloneEntries copies the entries of channel name, or all entries when name
// is empty. Each copy owns its context map so callers cannot reach the
// recorded entry.
func cloneEntries(entries []Entry, name string) []Entry {
	var out []Entry
	for _, e := range entries {
		if name != "" && e.Channel != name {
			continue
		}
		e.Context = maps.Clone(e.Context)
		out = append(out, e)
	}
	return out
}

// filter returns the entries at level accepted by every predicate.
func filter(entries []Entry, level Level, preds []Predicate) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Level == level && e.accepts(preds) {
			out = append(out, e)
		}
	}
	return out
}

// logged returns name's entries at level accepted by every predicate.
// Predicates run without the lock.
func (s *Store) logged(name string, level Level, preds []Predicate) []Entry {
	return filter(s.snapshot(name), level, preds)
}

// Logged returns the current channel's entries at level accepted by preds.
func (s *Store) Logged(level Level, preds ...Predicate) []Entry {
	return s.logged(s.CurrentChannel(), level, preds)
}

// HasLogged reports whether the current channel has any entry at level.
func (s *Store) HasLogged(level Level) bool {
	return len(s.Logged(level)) > 0
}

// HasNotLogged reports whether the current channel has no entry at level.
func (s *Store) HasNotLogged(level Level) bool {
	return !s.HasLogged(level)
}

func (s *Store) forgetCount(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.forgotten[name]
}

func (s *Store) currentlyForgotten(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, resolved := s.channels[name]
	return s.forgotten[name] > 0 && !resolved
}
