package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/playproof/levelproof/level/grid"
)

var (
	ErrLevelNotFound = errors.New("level not found")
	ErrInvalidLevel  = errors.New("invalid level document")
)

// Store handles level loading and caching from a directory of JSON files.
type Store struct {
	dir    string
	levels map[string]*grid.GridLevel
	mu     sync.RWMutex
}

// New creates a store over an existing directory.
func New(dir string) (*Store, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, fmt.Errorf("level directory does not exist: %s", dir)
	}
	return &Store{
		dir:    dir,
		levels: make(map[string]*grid.GridLevel),
	}, nil
}

// Load returns a level by name, reading it from disk on first use. Callers
// receive a copy so cached documents stay pristine.
func (s *Store) Load(name string) (*grid.GridLevel, error) {
	s.mu.RLock()
	if lvl, exists := s.levels[name]; exists {
		s.mu.RUnlock()
		return lvl.Clone(), nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check after acquiring write lock
	if lvl, exists := s.levels[name]; exists {
		return lvl.Clone(), nil
	}

	data, err := os.ReadFile(filepath.Join(s.dir, fileFor(name)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrLevelNotFound
		}
		return nil, fmt.Errorf("failed to read level file: %w", err)
	}

	var lvl grid.GridLevel
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}
	if lvl.Schema != grid.SchemaVersion {
		return nil, fmt.Errorf("%w: schema %q", ErrInvalidLevel, lvl.Schema)
	}

	s.levels[name] = &lvl
	return lvl.Clone(), nil
}

// Save writes a level to disk and updates the cache.
func (s *Store) Save(name string, lvl *grid.GridLevel) error {
	if lvl.Schema != grid.SchemaVersion {
		return fmt.Errorf("%w: schema %q", ErrInvalidLevel, lvl.Schema)
	}

	data, err := json.MarshalIndent(lvl, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal level: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, fileFor(name)), data, 0644); err != nil {
		return fmt.Errorf("failed to write level file: %w", err)
	}

	s.mu.Lock()
	s.levels[name] = lvl.Clone()
	s.mu.Unlock()
	return nil
}

// List returns the names of all level files in the directory, whether or
// not they parse. Broken files surface through Load instead of vanishing.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read level directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	return names, nil
}

// RefreshCache drops every cached level so the next Load re-reads disk.
func (s *Store) RefreshCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.levels = make(map[string]*grid.GridLevel)
}

// Watch follows the level directory until ctx is cancelled, evicting a
// cached level whenever its file is written, renamed, or removed.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(s.dir); err != nil {
		return fmt.Errorf("failed to watch level directory: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove) {
				continue
			}
			name := strings.TrimSuffix(filepath.Base(event.Name), ".json")
			s.mu.Lock()
			delete(s.levels, name)
			s.mu.Unlock()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("Level watcher error: %v", err)
		}
	}
}

func fileFor(name string) string {
	if strings.HasSuffix(name, ".json") {
		return name
	}
	return name + ".json"
}
