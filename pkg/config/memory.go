package config

import (
	"fmt"
	"sync"

	storycontext "github.com/quillhq/quill/pkg/context"
	"github.com/quillhq/quill/pkg/memory"
)

// SectionIDMemory is the identifier for the rolling-memory settings section.
const SectionIDMemory = "memory"

// MemorySection manages the rolling-memory merge-protocol budgets.
type MemorySection struct {
	opts         memory.Options
	sectionOrder []string
	mu           sync.RWMutex
}

// NewMemorySection creates a memory section with production defaults.
func NewMemorySection() *MemorySection {
	return &MemorySection{opts: memory.DefaultOptions()}
}

// ID returns the section identifier.
func (s *MemorySection) ID() string { return SectionIDMemory }

// Title returns the section title.
func (s *MemorySection) Title() string { return "Rolling Memory" }

// Description returns the section description.
func (s *MemorySection) Description() string {
	return "Budgets and thresholds for rolling-memory refreshes. Character counts are hard caps; min_delta_messages gates workshop refreshes."
}

// Data returns the current configuration data.
func (s *MemorySection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]interface{}{
		"scene_source_chars":     s.opts.SceneSourceChars,
		"chapter_source_chars":   s.opts.ChapterSourceChars,
		"chapter_chunk_chars":    s.opts.ChapterChunkChars,
		"scene_summary_chars":    s.opts.SceneSummaryChars,
		"chapter_summary_chars":  s.opts.ChapterSummaryChars,
		"workshop_summary_chars": s.opts.WorkshopSummaryChars,
		"min_delta_messages":     s.opts.MinDeltaMessages,
		"delta_window":           s.opts.DeltaWindow,
		"section_order":          append([]string(nil), s.sectionOrder...),
	}
}

// SetData updates the configuration from the provided data. JSON numbers
// arrive as float64; zero and missing values keep their defaults.
func (s *MemorySection) SetData(data map[string]interface{}) error {
	if data == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	setInt := func(key string, dst *int) {
		if v, ok := data[key].(float64); ok && v > 0 {
			*dst = int(v)
		}
	}
	setInt("scene_source_chars", &s.opts.SceneSourceChars)
	setInt("chapter_source_chars", &s.opts.ChapterSourceChars)
	setInt("chapter_chunk_chars", &s.opts.ChapterChunkChars)
	setInt("scene_summary_chars", &s.opts.SceneSummaryChars)
	setInt("chapter_summary_chars", &s.opts.ChapterSummaryChars)
	setInt("workshop_summary_chars", &s.opts.WorkshopSummaryChars)
	setInt("min_delta_messages", &s.opts.MinDeltaMessages)
	setInt("delta_window", &s.opts.DeltaWindow)

	if raw, ok := data["section_order"].([]interface{}); ok {
		order := make([]string, 0, len(raw))
		for _, v := range raw {
			if name, ok := v.(string); ok {
				order = append(order, name)
			}
		}
		s.sectionOrder = order
	}
	return nil
}

// Validate validates the current configuration.
func (s *MemorySection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.opts.ChapterChunkChars > s.opts.ChapterSourceChars {
		return fmt.Errorf("config: chapter_chunk_chars (%d) exceeds chapter_source_chars (%d)",
			s.opts.ChapterChunkChars, s.opts.ChapterSourceChars)
	}
	for _, name := range s.sectionOrder {
		switch storycontext.Section(name) {
		case storycontext.SectionCompendium, storycontext.SectionSceneSummaries, storycontext.SectionChapterSummaries:
		default:
			return fmt.Errorf("config: unknown context section %q", name)
		}
	}
	return nil
}

// Reset restores the production defaults.
func (s *MemorySection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts = memory.DefaultOptions()
	s.sectionOrder = nil
}

// Options returns a copy of the configured memory options.
func (s *MemorySection) Options() memory.Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opts
}

// SectionOrder returns the configured combined-context section order, or nil
// when the default order applies.
func (s *MemorySection) SectionOrder() []storycontext.Section {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.sectionOrder) == 0 {
		return nil
	}
	order := make([]storycontext.Section, 0, len(s.sectionOrder))
	for _, name := range s.sectionOrder {
		order = append(order, storycontext.Section(name))
	}
	return order
}
