package story

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillhq/quill/pkg/types"
)

func newTestStore() *MemStore {
	store := NewMemStore("Test Project")
	store.AddEntry(&types.CompendiumEntry{ID: "e1", Title: "Mira"})
	store.AddChapter(&types.Chapter{ID: "c1", Title: "One"},
		&types.Scene{ID: "s1", Title: "Opening"},
		&types.Scene{ID: "s2", Title: "The Crossing"},
	)
	store.AddChapter(&types.Chapter{ID: "c2", Title: "Two"},
		&types.Scene{ID: "s3", Title: "Aftermath"},
	)
	return store
}

func TestMemStoreLookups(t *testing.T) {
	store := newTestStore()

	assert.Equal(t, "Test Project", store.ProjectTitle())

	_, ok := store.Entry("e1")
	assert.True(t, ok)
	_, ok = store.Entry("missing")
	assert.False(t, ok)

	chapter, ok := store.ChapterOfScene("s2")
	require.True(t, ok)
	assert.Equal(t, types.ChapterID("c1"), chapter.ID)
	_, ok = store.ChapterOfScene("missing")
	assert.False(t, ok)
}

func TestMemStoreScenesInManuscriptOrder(t *testing.T) {
	store := newTestStore()
	scenes := store.Scenes()
	require.Len(t, scenes, 3)
	assert.Equal(t, types.SceneID("s1"), scenes[0].ID)
	assert.Equal(t, types.SceneID("s2"), scenes[1].ID)
	assert.Equal(t, types.SceneID("s3"), scenes[2].ID)
}

func TestMemStoreSelectionRoundTrip(t *testing.T) {
	store := newTestStore()
	require.NoError(t, store.SaveSelection("s1", types.RefCompendium, []string{"e1", "e2"}))
	assert.Equal(t, []string{"e1", "e2"}, store.Selection("s1", types.RefCompendium))
	assert.Empty(t, store.Selection("s1", types.RefSceneSummary))
	assert.Empty(t, store.Selection("s2", types.RefCompendium))
}

func TestMemStoreRollingMemoryRoundTrip(t *testing.T) {
	store := newTestStore()

	_, ok := store.RollingMemory("scene:s1")
	assert.False(t, ok)

	rec := RollingRecord{Summary: "summary", StalenessKey: "abc", UpdatedAt: time.Now()}
	require.NoError(t, store.SaveRollingMemory("scene:s1", rec))

	got, ok := store.RollingMemory("scene:s1")
	require.True(t, ok)
	assert.Equal(t, rec.Summary, got.Summary)
	assert.Equal(t, rec.StalenessKey, got.StalenessKey)

	// Saving again replaces the record wholesale.
	require.NoError(t, store.SaveRollingMemory("scene:s1", RollingRecord{Summary: "new", StalenessKey: "def"}))
	got, _ = store.RollingMemory("scene:s1")
	assert.Equal(t, "new", got.Summary)
	assert.Equal(t, "def", got.StalenessKey)
}
