// pattern: Imperative Shell

package logging

import (
	"errors"
	"sync"
	"sync/atomic"
)

var errSinkClosed = errors.New("write to closed channel sink")

// ChannelSink hands entries to one live consumer over a buffered Go channel.
// It is a zapcore.WriteSyncer so a Manager can tee its JSON output into it.
// A full buffer evicts its oldest entry; every lost entry is counted.
type ChannelSink struct {
	mu      sync.Mutex
	out     chan LogEntry
	done    bool
	dropped atomic.Uint64
}

// NewChannelSink creates a sink buffering up to size entries.
func NewChannelSink(size int) *ChannelSink {
	return &ChannelSink{out: make(chan LogEntry, size)}
}

// Write decodes one JSON line written by zap. Lines that do not decode are
// accepted and discarded so that logging never fails because of the sink.
func (s *ChannelSink) Write(p []byte) (int, error) {
	entry, err := ParseEntryJSON(p)
	if err != nil {
		return len(p), nil
	}
	if !s.offer(entry) {
		return 0, errSinkClosed
	}
	return len(p), nil
}

// Send delivers an already decoded entry. It does nothing after Close.
func (s *ChannelSink) Send(entry LogEntry) {
	s.offer(entry)
}

// offer enqueues entry and reports false once the sink is closed.
func (s *ChannelSink) offer(entry LogEntry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return false
	}

	select {
	case s.out <- entry:
		return true
	default:
	}

	// Only this method sends, and it holds mu, so eviction frees a slot
	// unless the buffer has none.
	select {
	case <-s.out:
	default:
	}
	select {
	case s.out <- entry:
	default:
	}
	s.dropped.Add(1)
	return true
}

// Dropped reports how many entries were lost to a full buffer.
func (s *ChannelSink) Dropped() uint64 {
	return s.dropped.Load()
}

// Sync implements zapcore.WriteSyncer.
func (s *ChannelSink) Sync() error { return nil }

// Close ends the stream. Later writes fail and later sends are ignored.
func (s *ChannelSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.done {
		s.done = true
		close(s.out)
	}
	return nil
}

// Entries is the stream of delivered entries. It is closed by Close.
func (s *ChannelSink) Entries() <-chan LogEntry {
	return s.out
}
