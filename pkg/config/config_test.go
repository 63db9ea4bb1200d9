package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storycontext "github.com/quillhq/quill/pkg/context"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	store, err := NewFileStore(path)
	require.NoError(t, err)

	require.NoError(t, store.SetSection("llm", map[string]interface{}{"model": "gpt-4o"}))
	require.NoError(t, store.Save())

	reloaded, err := NewFileStore(path)
	require.NoError(t, err)
	data, err := reloaded.GetSection("llm")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", data["model"])
}

func TestFileStoreMissingFile(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "nope", "config.json"))
	require.NoError(t, err, "a missing config file is a fresh start, not an error")

	data, err := store.GetSection("llm")
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStore(path)
	assert.Error(t, err)
}

func TestManagerLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	manager := NewManager(store)
	llm := NewLLMSection()
	require.NoError(t, manager.RegisterSection(llm))
	require.NoError(t, manager.LoadAll())

	llm.Model = "gpt-4o-mini"
	llm.MemoryModel = "gpt-4o-mini"
	require.NoError(t, manager.SaveAll())

	// A second manager over the same file sees the saved values.
	store2, err := NewFileStore(path)
	require.NoError(t, err)
	manager2 := NewManager(store2)
	llm2 := NewLLMSection()
	require.NoError(t, manager2.RegisterSection(llm2))
	require.NoError(t, manager2.LoadAll())

	assert.Equal(t, "gpt-4o-mini", llm2.GetModel())
	assert.Equal(t, "gpt-4o-mini", llm2.GetMemoryModel())
}

func TestManagerRejectsDuplicateSection(t *testing.T) {
	manager := NewManager(nil)
	require.NoError(t, manager.RegisterSection(NewLLMSection()))
	assert.Error(t, manager.RegisterSection(NewLLMSection()))
}

func TestMemorySectionDefaults(t *testing.T) {
	section := NewMemorySection()
	opts := section.Options()
	assert.Equal(t, 12000, opts.SceneSourceChars)
	assert.Equal(t, 4, opts.MinDeltaMessages)
	assert.Nil(t, section.SectionOrder())
}

func TestMemorySectionSetData(t *testing.T) {
	section := NewMemorySection()

	// JSON decoding hands numbers over as float64.
	require.NoError(t, section.SetData(map[string]interface{}{
		"scene_summary_chars": float64(1500),
		"min_delta_messages":  float64(2),
		"delta_window":        float64(0),
		"section_order":       []interface{}{"scene_summaries", "compendium"},
	}))

	opts := section.Options()
	assert.Equal(t, 1500, opts.SceneSummaryChars)
	assert.Equal(t, 2, opts.MinDeltaMessages)
	assert.Equal(t, 18, opts.DeltaWindow, "zero keeps the default")
	assert.Equal(t,
		[]storycontext.Section{storycontext.SectionSceneSummaries, storycontext.SectionCompendium},
		section.SectionOrder())
	require.NoError(t, section.Validate())

	section.Reset()
	assert.Equal(t, 2200, section.Options().SceneSummaryChars)
	assert.Nil(t, section.SectionOrder())
}

func TestMemorySectionValidate(t *testing.T) {
	section := NewMemorySection()
	require.NoError(t, section.SetData(map[string]interface{}{
		"chapter_chunk_chars":  float64(9000),
		"chapter_source_chars": float64(6000),
	}))
	assert.Error(t, section.Validate(), "chunks larger than the source budget make no sense")

	section.Reset()
	require.NoError(t, section.SetData(map[string]interface{}{
		"section_order": []interface{}{"bogus"},
	}))
	assert.Error(t, section.Validate())
}
