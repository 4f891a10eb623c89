// pattern: Imperative Shell

package logging

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// maxLineSize bounds one JSON log line.
const maxLineSize = 1 << 20

// ReadLogFile reads every JSON log line in path. Malformed lines are skipped.
func ReadLogFile(path string) ([]LogEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ReadEntries(f)
}

// ReadEntries reads JSON log lines from r. Malformed and blank lines are skipped.
func ReadEntries(r io.Reader) ([]LogEntry, error) {
	var entries []LogEntry
	sc := bufio.NewScanner(r)
	sc.Buffer(nil, maxLineSize)
	for sc.Scan() {
		if entry, err := ParseEntryJSON(sc.Bytes()); err == nil {
			entries = append(entries, entry)
		}
	}
	if err := sc.Err(); err != nil {
		return entries, fmt.Errorf("failed to read log entries: %w", err)
	}
	return entries, nil
}

// LogFileReader follows a JSON log file written by a Manager and sends each
// complete line to a ChannelSink. It survives the file being created late,
// rotated away, or truncated in place. fsnotify drives it, and a slow poll
// covers filesystems that drop events.
type LogFileReader struct {
	path     string
	interval time.Duration
	sink     *ChannelSink
	watcher  *fsnotify.Watcher

	mu     sync.Mutex
	f      *os.File
	pos    int64 // offset after the last complete line
	closed bool
}

// NewLogFileReader creates a reader for path that delivers into sink.
func NewLogFileReader(path string, sink *ChannelSink) (*LogFileReader, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &LogFileReader{
		path:     path,
		interval: 5 * time.Second,
		sink:     sink,
		watcher:  watcher,
	}, nil
}

// Start follows the file until ctx is cancelled. With fromStart false the
// lines already in the file are skipped.
func (r *LogFileReader) Start(ctx context.Context, fromStart bool) error {
	// The directory is watched because the file may not exist yet and
	// rotation replaces it.
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	if err := r.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory: %w", err)
	}

	r.locked(func() {
		if r.attach(!fromStart) == nil {
			r.drain()
		}
	})

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = r.Close()
			return ctx.Err()

		case ev, ok := <-r.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) == filepath.Clean(r.path) {
				r.locked(func() { r.apply(ev) })
			}

		case <-ticker.C:
			r.locked(func() {
				_ = r.attach(false)
				r.drain()
			})

		case _, ok := <-r.watcher.Errors:
			if !ok {
				return nil
			}
		}
	}
}

func (r *LogFileReader) locked(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn()
}

// apply reacts to one event on the followed file. Requires r.mu.
func (r *LogFileReader) apply(ev fsnotify.Event) {
	if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
		// Moved away by rotation; the next Create reattaches.
		r.detach()
		return
	}
	if ev.Has(fsnotify.Create) {
		_ = r.attach(false)
	}
	r.drain()
}

// attach opens the file unless it is already open, positioned at its end
// when atEnd is set. Requires r.mu.
func (r *LogFileReader) attach(atEnd bool) error {
	if r.f != nil {
		return nil
	}
	f, err := os.Open(r.path)
	if err != nil {
		return err
	}

	var pos int64
	if atEnd {
		if pos, err = f.Seek(0, io.SeekEnd); err != nil {
			_ = f.Close()
			return err
		}
	}
	r.f, r.pos = f, pos
	return nil
}

// detach closes the file. Requires r.mu.
func (r *LogFileReader) detach() {
	if r.f == nil {
		return
	}
	_ = r.f.Close()
	r.f, r.pos = nil, 0
}

// drain delivers every complete line after r.pos. An unterminated last line
// stays unread until its newline arrives. Requires r.mu.
func (r *LogFileReader) drain() {
	if r.f == nil {
		return
	}
	if info, err := r.f.Stat(); err == nil && info.Size() < r.pos {
		r.pos = 0
	}
	if _, err := r.f.Seek(r.pos, io.SeekStart); err != nil {
		return
	}

	br := bufio.NewReader(r.f)
	for {
		line, err := br.ReadBytes('\n')
		if err != nil {
			return
		}
		r.pos += int64(len(line))
		if entry, err := ParseEntryJSON(line); err == nil {
			r.sink.Send(entry)
		}
	}
}

// Close stops following and releases the file and the watcher.
func (r *LogFileReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	r.detach()
	return r.watcher.Close()
}
