package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrKeyNotMap is returned when a dotted key walks through a value that is
// not a mapping.
var ErrKeyNotMap = errors.New("config key does not address a mapping")

// Repository gives dotted-key access ("logging.default") to a config document.
type Repository struct {
	mu    sync.RWMutex
	items map[string]any
}

// NewRepository returns a repository over items. A nil map starts empty.
func NewRepository(items map[string]any) *Repository {
	if items == nil {
		items = make(map[string]any)
	}
	return &Repository{items: items}
}

// NewRepositoryFromConfig decodes cfg into a generic document keyed by its
// YAML field names.
func NewRepositoryFromConfig(cfg Config) (*Repository, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	items := make(map[string]any)
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return NewRepository(items), nil
}

// Get returns the value at key, or nil when any segment is missing.
func (r *Repository) Get(key string) any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var current any = r.items
	for _, segment := range strings.Split(key, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current, ok = m[segment]
		if !ok {
			return nil
		}
	}
	return current
}

// Set stores value at key, creating intermediate mappings as needed. It
// fails when an intermediate segment holds a non-mapping value.
func (r *Repository) Set(key string, value any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	segments := strings.Split(key, ".")
	current := r.items
	for _, segment := range segments[:len(segments)-1] {
		next, ok := current[segment]
		if !ok {
			child := make(map[string]any)
			current[segment] = child
			current = child
			continue
		}
		child, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("set %q: %w", key, ErrKeyNotMap)
		}
		current = child
	}
	current[segments[len(segments)-1]] = value
	return nil
}

// String returns the string at key, or "" when it is missing or not a string.
func (r *Repository) String(key string) string {
	s, _ := r.Get(key).(string)
	return s
}
