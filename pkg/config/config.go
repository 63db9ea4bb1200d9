package config

import (
	"sync"
)

var (
	globalManager *Manager
	globalMu      sync.Mutex
)

// Initialize creates and initializes the global configuration manager.
// This should be called once at application startup.
func Initialize(configPath string) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	store, err := NewFileStore(configPath)
	if err != nil {
		return err
	}

	manager := NewManager(store)
	if err := manager.RegisterSection(NewLLMSection()); err != nil {
		return err
	}
	if err := manager.RegisterSection(NewMemorySection()); err != nil {
		return err
	}
	if err := manager.LoadAll(); err != nil {
		return err
	}

	globalManager = manager
	return nil
}

// Global returns the global configuration manager.
// Panics if Initialize has not been called.
func Global() *Manager {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalManager == nil {
		panic("config not initialized: call config.Initialize first")
	}
	return globalManager
}

// GetLLM returns the global LLM section, or nil before initialization.
func GetLLM() *LLMSection {
	globalMu.Lock()
	manager := globalManager
	globalMu.Unlock()
	if manager == nil {
		return nil
	}
	if s, ok := manager.Section(SectionIDLLM); ok {
		if llm, ok := s.(*LLMSection); ok {
			return llm
		}
	}
	return nil
}

// GetMemory returns the global memory section, or nil before initialization.
func GetMemory() *MemorySection {
	globalMu.Lock()
	manager := globalManager
	globalMu.Unlock()
	if manager == nil {
		return nil
	}
	if s, ok := manager.Section(SectionIDMemory); ok {
		if mem, ok := s.(*MemorySection); ok {
			return mem
		}
	}
	return nil
}
