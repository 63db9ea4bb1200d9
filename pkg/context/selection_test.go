package context

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillhq/quill/pkg/story"
	"github.com/quillhq/quill/pkg/types"
)

func TestSelectionToggle(t *testing.T) {
	store := newResolverFixture()
	sel := NewSelectionStore(store)
	scene := types.SceneID("s1")

	require.NoError(t, sel.Toggle(scene, types.RefCompendium, "e1"))
	require.NoError(t, sel.Toggle(scene, types.RefCompendium, "e2"))
	require.NoError(t, sel.Toggle(scene, types.RefCompendium, "e3"))
	assert.Equal(t, []string{"e1", "e2", "e3"}, sel.Selected(scene, types.RefCompendium))

	// Toggling a selected id removes it, leaving the rest in order.
	require.NoError(t, sel.Toggle(scene, types.RefCompendium, "e2"))
	assert.Equal(t, []string{"e1", "e3"}, sel.Selected(scene, types.RefCompendium))

	// Toggling it back appends at the end.
	require.NoError(t, sel.Toggle(scene, types.RefCompendium, "e2"))
	assert.Equal(t, []string{"e1", "e3", "e2"}, sel.Selected(scene, types.RefCompendium))
}

func TestSelectionClear(t *testing.T) {
	store := newResolverFixture()
	sel := NewSelectionStore(store)
	scene := types.SceneID("s1")

	require.NoError(t, sel.Toggle(scene, types.RefCompendium, "e1"))
	require.NoError(t, sel.Toggle(scene, types.RefSceneSummary, "s2"))

	require.NoError(t, sel.Clear(scene, types.RefCompendium))
	assert.Nil(t, sel.Selected(scene, types.RefCompendium))
	assert.Equal(t, []string{"s2"}, sel.Selected(scene, types.RefSceneSummary),
		"clearing one kind leaves the others alone")
}

func TestSelectionKindsAreIndependent(t *testing.T) {
	store := newResolverFixture()
	sel := NewSelectionStore(store)
	scene := types.SceneID("s1")

	require.NoError(t, sel.Toggle(scene, types.RefCompendium, "e1"))
	require.NoError(t, sel.Toggle(scene, types.RefChapterSummary, "c1"))

	assert.Equal(t, []string{"e1"}, sel.Selected(scene, types.RefCompendium))
	assert.Equal(t, []string{"c1"}, sel.Selected(scene, types.RefChapterSummary))
	assert.Nil(t, sel.Selected(scene, types.RefSceneSummary))
}

func TestSelectionSanitizesDeletedEntities(t *testing.T) {
	store := newResolverFixture()
	sel := NewSelectionStore(store)
	scene := types.SceneID("s1")

	require.NoError(t, sel.Toggle(scene, types.RefCompendium, "e1"))
	require.NoError(t, sel.Toggle(scene, types.RefCompendium, "e2"))
	require.NoError(t, sel.Toggle(scene, types.RefCompendium, "e3"))

	store.RemoveEntry("e2")
	assert.Equal(t, []string{"e1", "e3"}, sel.Selected(scene, types.RefCompendium))

	// The cleaned list was persisted, not just filtered on the way out.
	assert.Equal(t, []string{"e1", "e3"}, store.Selection(scene, types.RefCompendium))
}

func TestSelectionAllStaleReturnsNil(t *testing.T) {
	store := story.NewMemStore("Test Project")
	store.AddEntry(&types.CompendiumEntry{ID: "e1", Title: "Mira"})
	sel := NewSelectionStore(store)
	scene := types.SceneID("s1")

	require.NoError(t, sel.Toggle(scene, types.RefCompendium, "e1"))
	store.RemoveEntry("e1")

	assert.Nil(t, sel.Selected(scene, types.RefCompendium))
	assert.Empty(t, store.Selection(scene, types.RefCompendium))
}
