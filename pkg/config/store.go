// Package config provides sectioned configuration with JSON file persistence.
// Each subsystem registers a Section; the Manager moves data between sections
// and the backing Store.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store provides persistence for configuration data.
type Store interface {
	// Load loads the configuration from disk.
	Load() error

	// Save saves the configuration to disk.
	Save() error

	// GetSection retrieves configuration data for a specific section.
	GetSection(sectionID string) (map[string]interface{}, error)

	// SetSection stores configuration data for a specific section.
	SetSection(sectionID string, data map[string]interface{}) error
}

// FileStore implements Store using a JSON file.
type FileStore struct {
	path    string
	data    map[string]map[string]interface{}
	mu      sync.RWMutex
	version string
}

// NewFileStore creates a new file-based configuration store.
// If path is empty, defaults to ~/.quill/config.json.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("config: get user home directory: %w", err)
		}
		path = filepath.Join(homeDir, ".quill", "config.json")
	}

	store := &FileStore{
		path:    path,
		data:    make(map[string]map[string]interface{}),
		version: "1.0",
	}

	// A missing file is fine; first run starts from defaults.
	if err := store.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: load from %s: %w", path, err)
	}
	return store, nil
}

type fileFormat struct {
	Version  string                            `json:"version"`
	Sections map[string]map[string]interface{} `json:"sections"`
}

// Load loads the configuration from disk.
func (s *FileStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.data = make(map[string]map[string]interface{})
			return nil
		}
		return fmt.Errorf("config: open config file: %w", err)
	}
	defer file.Close()

	var cfg fileFormat
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return fmt.Errorf("config: decode config file: %w", err)
	}

	s.version = cfg.Version
	if cfg.Sections != nil {
		s.data = cfg.Sections
	} else {
		s.data = make(map[string]map[string]interface{})
	}
	return nil
}

// Save writes the configuration to disk atomically (temp file + rename).
func (s *FileStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("config: create config directory: %w", err)
	}

	tempPath := s.path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("config: create temp config file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(fileFormat{Version: s.version, Sections: s.data}); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("config: close temp file: %w", err)
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("config: rename temp file: %w", err)
	}
	return nil
}

// GetSection retrieves configuration data for a specific section. A missing
// section yields an empty map, not an error.
func (s *FileStore) GetSection(sectionID string) (map[string]interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, exists := s.data[sectionID]
	dataCopy := make(map[string]interface{}, len(data))
	if exists {
		for k, v := range data {
			dataCopy[k] = v
		}
	}
	return dataCopy, nil
}

// SetSection stores configuration data for a specific section.
func (s *FileStore) SetSection(sectionID string, data map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dataCopy := make(map[string]interface{}, len(data))
	for k, v := range data {
		dataCopy[k] = v
	}
	s.data[sectionID] = dataCopy
	return nil
}
