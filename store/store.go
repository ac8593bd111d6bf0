// Package store provides PersistentStore implementations: an in-memory map
// for tests and headless runs, and a directory of JSON files for play sessions
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"sync"

	"github.com/lixenwraith/planetz/world"
)

// ErrNotFound aliases the collaborator sentinel so callers can match either
var ErrNotFound = world.ErrNotFound

// Memory is a thread-safe in-memory PersistentStore
// Values are held JSON-encoded so reads never alias caller memory
type Memory struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemory creates an empty Memory store
func NewMemory() *Memory {
	return &Memory{values: make(map[string][]byte)}
}

// Get decodes the value at key into v
func (m *Memory) Get(key string, v any) error {
	m.mu.RLock()
	raw, ok := m.values[key]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	return json.Unmarshal(raw, v)
}

// Set encodes v at key
func (m *Memory) Set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	m.mu.Lock()
	m.values[key] = raw
	m.mu.Unlock()
	return nil
}

// SetRaw stores pre-encoded JSON, used to seed legacy layouts
func (m *Memory) SetRaw(key string, raw []byte) {
	m.mu.Lock()
	m.values[key] = append([]byte(nil), raw...)
	m.mu.Unlock()
}

// Delete removes key; absent keys are not an error
func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	delete(m.values, key)
	m.mu.Unlock()
	return nil
}

// Keys returns stored keys in sorted order
func (m *Memory) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var unsafeKey = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// Dir stores each key as <dir>/<key>.json
// Writes go through a temp file and rename so a crash never leaves a torn value
type Dir struct {
	mu   sync.Mutex
	root string
}

// NewDir creates the directory if needed
func NewDir(root string) (*Dir, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("store dir %s: %w", root, err)
	}
	return &Dir{root: root}, nil
}

func (d *Dir) path(key string) string {
	return filepath.Join(d.root, unsafeKey.ReplaceAllString(key, "_")+".json")
}

// Get decodes the file for key into v
func (d *Dir) Get(key string, v any) error {
	d.mu.Lock()
	raw, err := os.ReadFile(d.path(key))
	d.mu.Unlock()
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}
	return json.Unmarshal(raw, v)
}

// Set writes v for key atomically
func (d *Dir) Set(key string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	tmp, err := os.CreateTemp(d.root, ".tmp-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", key, err)
	}
	return os.Rename(tmp.Name(), d.path(key))
}

// Delete removes the file for key; absent keys are not an error
func (d *Dir) Delete(key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	err := os.Remove(d.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
