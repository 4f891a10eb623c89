// pattern: Imperative Shell
package instance

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const (
	lockFileName = "serve.lock"
	addrFileName = "serve.addr"
)

// ErrRunning is returned by Acquire when another server holds the lock.
var ErrRunning = errors.New("another logfake server is already running")

// Lease is the exclusive right to run the server for one data directory.
type Lease struct {
	dir string
	fl  *flock.Flock
}

// Acquire takes the server lock in dir without blocking.
func Acquire(dir string) (*Lease, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	fl := flock.New(filepath.Join(dir, lockFileName))
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return nil, ErrRunning
	}
	return &Lease{dir: dir, fl: fl}, nil
}

// Publish records the listener address so Discover can find the server.
func (l *Lease) Publish(addr string) error {
	return os.WriteFile(filepath.Join(l.dir, addrFileName), []byte(addr), 0o600)
}

// Release removes the address file and unlocks. Safe to call on nil.
func (l *Lease) Release() {
	if l == nil {
		return
	}
	_ = os.Remove(filepath.Join(l.dir, addrFileName))
	_ = l.fl.Unlock()
}
