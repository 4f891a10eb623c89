// pattern: Imperative Shell

package logfake

// handle is the part of a channel view shared by Channel and Stack: logging
// through the store's proxy and the entry assertions.
type handle struct {
	store *Store
	name  string
}

// Name returns the channel identity entries are recorded under.
func (h *handle) Name() string {
	return h.name
}

// Log records an entry in this channel.
func (h *handle) Log(level Level, message any, args ...any) {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	h.store.proxy(h.name, func() {
		h.store.record(level, message, args)
	})
}

// Write is an alias for Log.
func (h *handle) Write(level Level, message any, args ...any) {
	h.Log(level, message, args...)
}

// Entries returns this channel's entries in write order.
func (h *handle) Entries() []Entry {
	return h.store.snapshot(h.name)
}

// Logged returns this channel's entries at level accepted by preds.
func (h *handle) Logged(level Level, preds ...Predicate) []Entry {
	return h.store.logged(h.name, level, preds)
}

// HasLogged reports whether this channel has any entry at level.
func (h *handle) HasLogged(level Level) bool {
	return len(h.Logged(level)) > 0
}

// HasNotLogged reports whether this channel has no entry at level.
func (h *handle) HasNotLogged(level Level) bool {
	return !h.HasLogged(level)
}

// AssertLogged asserts that an entry at level was written to this channel.
func (h *handle) AssertLogged(level Level, msgAndArgs ...any) bool {
	return h.store.assertLogged(h.name, level, nil, msgAndArgs)
}

// AssertLoggedFunc asserts that an entry at level accepted by pred was
// written to this channel.
func (h *handle) AssertLoggedFunc(level Level, pred Predicate, msgAndArgs ...any) bool {
	return h.store.assertLogged(h.name, level, pred, msgAndArgs)
}

// AssertLoggedTimes asserts that exactly times entries at level were written.
func (h *handle) AssertLoggedTimes(level Level, times int, msgAndArgs ...any) bool {
	return h.store.assertLoggedTimes(h.name, level, times, nil, msgAndArgs)
}

// AssertLoggedTimesFunc asserts that exactly times entries at level accepted
// by pred were written.
func (h *handle) AssertLoggedTimesFunc(level Level, times int, pred Predicate, msgAndArgs ...any) bool {
	return h.store.assertLoggedTimes(h.name, level, times, pred, msgAndArgs)
}

// AssertNotLogged asserts that no entry at level was written.
func (h *handle) AssertNotLogged(level Level, msgAndArgs ...any) bool {
	return h.store.assertNotLogged(h.name, level, nil, msgAndArgs)
}

// AssertNotLoggedFunc asserts that no entry at level accepted by pred was
// written.
func (h *handle) AssertNotLoggedFunc(level Level, pred Predicate, msgAndArgs ...any) bool {
	return h.store.assertNotLogged(h.name, level, pred, msgAndArgs)
}

// AssertNothingLogged asserts that this channel has no entries at all.
func (h *handle) AssertNothingLogged(msgAndArgs ...any) bool {
	return h.store.assertNothingLogged(h.name, msgAndArgs)
}

// AssertLoggedMessage asserts that an entry at level with exactly message was
// written.
func (h *handle) AssertLoggedMessage(level Level, message any, msgAndArgs ...any) bool {
	return h.store.assertLoggedMessage(h.name, level, message, msgAndArgs)
}

// Channel is a named view over a Store. Every logging call made through it
// is recorded under its name. Resolving a handle ends its forgotten state, so
// Store.AssertChannelIsCurrentlyForgotten is asked by name instead.
type Channel struct {
	handle
	severities
}

func newChannel(s *Store, name string) *Channel {
	c := &Channel{handle: handle{store: s, name: name}}
	c.severities = severities{r: &c.handle}
	return c
}

// WithContext merges ctx into the channel's context. Later keys overwrite.
func (c *Channel) WithContext(ctx Context) *Channel {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	c.store.withContext(c.name, ctx)
	return c
}

// WithoutContext clears the channel's context.
func (c *Channel) WithoutContext() *Channel {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	delete(c.store.contexts, c.name)
	return c
}

// CurrentContext returns a copy of the context bound to the channel.
func (c *Channel) CurrentContext() Context {
	return c.store.currentContext(c.name)
}

// AssertCurrentContext asserts that the channel's bound context equals
// expected.
func (c *Channel) AssertCurrentContext(expected Context, msgAndArgs ...any) bool {
	return c.store.assertCurrentContext(c.name, expected, msgAndArgs)
}

// AssertWasForgotten asserts that the channel was forgotten at least once.
func (c *Channel) AssertWasForgotten(msgAndArgs ...any) bool {
	return c.store.assertWasForgotten(c.name, msgAndArgs)
}

// AssertWasForgottenTimes asserts that the channel was forgotten exactly
// times times.
func (c *Channel) AssertWasForgottenTimes(times int, msgAndArgs ...any) bool {
	return c.store.assertWasForgottenTimes(c.name, times, msgAndArgs)
}

// AssertWasNotForgotten asserts that the channel was never forgotten.
func (c *Channel) AssertWasNotForgotten(msgAndArgs ...any) bool {
	return c.store.assertWasNotForgotten(c.name, msgAndArgs)
}

// Dump prints the channel's entries accepted by preds.
func (c *Channel) Dump(preds ...Predicate) *Channel {
	c.store.dump(c.name, preds)
	return c
}

// Stack is a view over a named union of channels. A stack is recomputed
// every time it is resolved, so it has no forget state and no context that
// outlives the handle; the operations that would need them fail the test.
type Stack struct {
	handle
	severities
}

func newStack(s *Store, name string) *Stack {
	st := &Stack{handle: handle{store: s, name: name}}
	st.severities = severities{r: &st.handle}
	return st
}

// WithContext merges ctx into the stack's context for this resolution.
func (st *Stack) WithContext(ctx Context) *Stack {
	st.store.mu.Lock()
	defer st.store.mu.Unlock()
	st.store.withContext(st.name, ctx)
	return st
}

// WithoutContext clears the stack's context.
func (st *Stack) WithoutContext() *Stack {
	st.store.mu.Lock()
	defer st.store.mu.Unlock()
	delete(st.store.contexts, st.name)
	return st
}

// AssertCurrentContext always fails: stacks have no persistent context.
func (st *Stack) AssertCurrentContext(Context, ...any) bool {
	return st.store.unsupported(st.name, "AssertCurrentContext")
}

// AssertWasForgotten always fails: stacks cannot be forgotten.
func (st *Stack) AssertWasForgotten(...any) bool {
	return st.store.unsupported(st.name, "AssertWasForgotten")
}

// AssertWasForgottenTimes always fails: stacks cannot be forgotten.
func (st *Stack) AssertWasForgottenTimes(int, ...any) bool {
	return st.store.unsupported(st.name, "AssertWasForgottenTimes")
}

// AssertWasNotForgotten always fails: stacks cannot be forgotten.
func (st *Stack) AssertWasNotForgotten(...any) bool {
	return st.store.unsupported(st.name, "AssertWasNotForgotten")
}

// AssertChannelIsCurrentlyForgotten always fails: stacks cannot be forgotten.
func (st *Stack) AssertChannelIsCurrentlyForgotten(...any) bool {
	return st.store.unsupported(st.name, "AssertChannelIsCurrentlyForgotten")
}

// Dump prints the stack's entries accepted by preds.
func (st *Stack) Dump(preds ...Predicate) *Stack {
	st.store.dump(st.name, preds)
	return st
}
