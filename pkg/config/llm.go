package config

import (
	"sync"
)

// SectionIDLLM is the identifier for the LLM settings section.
const SectionIDLLM = "llm"

// LLMSection manages LLM provider configuration settings.
type LLMSection struct {
	Model       string
	BaseURL     string
	APIKey      string
	MemoryModel string // optional; if empty, memory refreshes use Model
	mu          sync.RWMutex
}

// NewLLMSection creates a new LLM section with default settings.
func NewLLMSection() *LLMSection {
	return &LLMSection{}
}

// ID returns the section identifier.
func (s *LLMSection) ID() string { return SectionIDLLM }

// Title returns the section title.
func (s *LLMSection) Title() string { return "LLM Settings" }

// Description returns the section description.
func (s *LLMSection) Description() string {
	return "Configure LLM provider settings. memory_model is optional; if set, rolling-memory refreshes use it instead of the main model."
}

// Data returns the current configuration data.
func (s *LLMSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]interface{}{
		"model":        s.Model,
		"base_url":     s.BaseURL,
		"api_key":      s.APIKey,
		"memory_model": s.MemoryModel,
	}
}

// SetData updates the configuration from the provided data.
func (s *LLMSection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if model, ok := data["model"].(string); ok {
		s.Model = model
	}
	if baseURL, ok := data["base_url"].(string); ok {
		s.BaseURL = baseURL
	}
	if apiKey, ok := data["api_key"].(string); ok {
		s.APIKey = apiKey
	}
	if memoryModel, ok := data["memory_model"].(string); ok {
		s.MemoryModel = memoryModel
	}
	return nil
}

// Validate validates the current configuration. LLM settings are optional;
// actual validation happens when a provider is built.
func (s *LLMSection) Validate() error { return nil }

// Reset resets the section to default configuration.
func (s *LLMSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Model = ""
	s.BaseURL = ""
	s.APIKey = ""
	s.MemoryModel = ""
}

// GetModel returns the configured model name.
func (s *LLMSection) GetModel() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Model
}

// GetBaseURL returns the configured base URL.
func (s *LLMSection) GetBaseURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.BaseURL
}

// GetAPIKey returns the configured API key.
func (s *LLMSection) GetAPIKey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.APIKey
}

// GetMemoryModel returns the configured memory-refresh model name.
// An empty string means the main model is used.
func (s *LLMSection) GetMemoryModel() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.MemoryModel
}
