// pattern: Imperative Shell

package web

import (
	"sync"

	"logfake/internal/logging"
)

// entryBroker fans out log entries to websocket subscribers.
type entryBroker struct {
	mu          sync.Mutex
	subscribers map[chan logging.LogEntry]struct{}
}

func newEntryBroker() *entryBroker {
	return &entryBroker{
		subscribers: make(map[chan logging.LogEntry]struct{}),
	}
}

// Subscribe returns a buffered channel that receives every published entry.
// The caller must call Unsubscribe when done.
func (b *entryBroker) Subscribe() chan logging.LogEntry {
	ch := make(chan logging.LogEntry, 64)
	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber channel.
func (b *entryBroker) Unsubscribe(ch chan logging.LogEntry) {
	b.mu.Lock()
	delete(b.subscribers, ch)
	b.mu.Unlock()
}

// Publish sends entry to all subscribers. Non-blocking: a subscriber whose
// buffer is full misses the entry.
func (b *entryBroker) Publish(entry logging.LogEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subscribers {
		select {
		case ch <- entry:
		default:
		}
	}
}

func (b *entryBroker) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers)
}
