// pattern: Imperative Shell
package instance

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

const healthTimeout = 2 * time.Second

// ErrNotRunning is returned by Discover when no server holds the lock.
var ErrNotRunning = errors.New("no running logfake server found (start one with 'logfake serve')")

// Discover returns the base URL of the server running for dir, for example
// "http://127.0.0.1:7070". The server must hold the lock, have published its
// address, and answer the health check.
func Discover(dir string) (string, error) {
	fl := flock.New(filepath.Join(dir, lockFileName))
	locked, err := fl.TryLock()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNotRunning
		}
		return "", fmt.Errorf("failed to check lock: %w", err)
	}
	if locked {
		_ = fl.Unlock()
		return "", ErrNotRunning
	}

	data, err := os.ReadFile(filepath.Join(dir, addrFileName))
	if err != nil {
		return "", fmt.Errorf("server is locked but has no address file: %w", err)
	}
	addr := strings.TrimSpace(string(data))
	if addr == "" {
		return "", fmt.Errorf("server address file is empty")
	}

	baseURL := "http://" + addr
	client := &http.Client{Timeout: healthTimeout}
	resp, err := client.Get(baseURL + "/api/health")
	if err != nil {
		return "", fmt.Errorf("server not responding: %w", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("server health check failed (status %d)", resp.StatusCode)
	}
	return baseURL, nil
}
