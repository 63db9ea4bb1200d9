package config

import (
	"fmt"
	"sync"
)

// Section is one registrable unit of configuration. Implementations own
// their field validation and concurrency.
type Section interface {
	// ID returns the stable section identifier used as the storage key.
	ID() string

	// Title returns a human-readable section title.
	Title() string

	// Description returns a human-readable section description.
	Description() string

	// Data returns the section's current data for persistence.
	Data() map[string]interface{}

	// SetData applies persisted data to the section. Unknown keys are
	// ignored; missing keys leave current values untouched.
	SetData(data map[string]interface{}) error

	// Validate checks the section's current values.
	Validate() error

	// Reset restores the section's defaults.
	Reset()
}

// Manager coordinates sections and the backing store.
type Manager struct {
	store    Store
	sections map[string]Section
	mu       sync.RWMutex
}

// NewManager creates a manager over the given store.
func NewManager(store Store) *Manager {
	return &Manager{
		store:    store,
		sections: make(map[string]Section),
	}
}

// RegisterSection adds a section. Registering a duplicate ID is an error.
func (m *Manager) RegisterSection(section Section) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := section.ID()
	if _, exists := m.sections[id]; exists {
		return fmt.Errorf("config: section %q already registered", id)
	}
	m.sections[id] = section
	return nil
}

// Section returns the registered section with the given ID, if any.
func (m *Manager) Section(id string) (Section, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sections[id]
	return s, ok
}

// LoadAll loads persisted data into every registered section.
func (m *Manager) LoadAll() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for id, section := range m.sections {
		data, err := m.store.GetSection(id)
		if err != nil {
			return fmt.Errorf("config: load section %q: %w", id, err)
		}
		if err := section.SetData(data); err != nil {
			return fmt.Errorf("config: apply section %q: %w", id, err)
		}
	}
	return nil
}

// SaveAll validates and persists every registered section.
func (m *Manager) SaveAll() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for id, section := range m.sections {
		if err := section.Validate(); err != nil {
			return fmt.Errorf("config: section %q invalid: %w", id, err)
		}
		if err := m.store.SetSection(id, section.Data()); err != nil {
			return fmt.Errorf("config: store section %q: %w", id, err)
		}
	}
	return m.store.Save()
}
