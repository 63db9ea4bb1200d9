package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillhq/quill/pkg/story"
	"github.com/quillhq/quill/pkg/types"
)

func testBundle() *story.Bundle {
	return &story.Bundle{
		Title: "The Crossing",
		Entries: []story.BundleEntry{
			{ID: "e1", Category: "Character", Title: "Mira", Tags: []string{"hero"}, Body: "The protagonist."},
			{Category: "Place", Title: "The Old Bridge"},
		},
		Chapters: []story.BundleChapter{
			{ID: "c1", Title: "One", Summary: "Mira sets out.", Scenes: []story.BundleScene{
				{ID: "s1", Title: "Opening", Content: "Mira wakes before dawn.", Summary: "Mira wakes."},
				{ID: "s2", Title: "The Crossing", Content: "She crosses.", Summary: "Mira crosses."},
			}},
		},
		Sessions: []story.BundleSession{
			{ID: "w1", Name: "Brainstorm", Messages: []story.BundleMessage{
				{Role: "user", Content: "What next?"},
				{Role: "assistant", Content: "Raise the stakes."},
			}},
		},
	}
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "project.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Import(testBundle()))
	return s
}

func TestImportAndLookups(t *testing.T) {
	s := openTestStore(t)

	assert.Equal(t, "The Crossing", s.ProjectTitle())

	entry, ok := s.Entry("e1")
	require.True(t, ok)
	assert.Equal(t, "Mira", entry.Title)
	assert.Equal(t, []string{"hero"}, entry.Tags)

	entries := s.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "Mira", entries[0].Title, "entries keep bundle order")
	assert.NotEmpty(t, entries[1].ID, "a blank bundle id gets a generated one")

	chapter, ok := s.Chapter("c1")
	require.True(t, ok)
	assert.Equal(t, []types.SceneID{"s1", "s2"}, chapter.SceneIDs)

	scene, ok := s.Scene("s2")
	require.True(t, ok)
	assert.Equal(t, "She crosses.", scene.Content)

	got, ok := s.ChapterOfScene("s2")
	require.True(t, ok)
	assert.Equal(t, types.ChapterID("c1"), got.ID)

	session, ok := s.Session("w1")
	require.True(t, ok)
	require.Len(t, session.Messages, 2)
	assert.Equal(t, types.RoleUser, session.Messages[0].Role)
}

func TestImportIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Import(testBundle()))

	assert.Len(t, s.Entries(), 3, "only the blank-id entry duplicates on re-import")
	session, _ := s.Session("w1")
	assert.Len(t, session.Messages, 2, "session messages are replaced, not appended")
}

func TestScenesInManuscriptOrder(t *testing.T) {
	s := openTestStore(t)
	scenes := s.Scenes()
	require.Len(t, scenes, 2)
	assert.Equal(t, types.SceneID("s1"), scenes[0].ID)
	assert.Equal(t, types.SceneID("s2"), scenes[1].ID)
}

func TestSelectionRoundTrip(t *testing.T) {
	s := openTestStore(t)

	assert.Empty(t, s.Selection("s1", types.RefCompendium))

	require.NoError(t, s.SaveSelection("s1", types.RefCompendium, []string{"e1", "e2"}))
	assert.Equal(t, []string{"e1", "e2"}, s.Selection("s1", types.RefCompendium))

	require.NoError(t, s.SaveSelection("s1", types.RefCompendium, nil))
	assert.Empty(t, s.Selection("s1", types.RefCompendium))
}

func TestRollingMemoryRoundTrip(t *testing.T) {
	s := openTestStore(t)

	_, ok := s.RollingMemory("scene:s1")
	assert.False(t, ok)

	rec := story.RollingRecord{Summary: "the summary", StalenessKey: "abc", UpdatedAt: time.Now().UTC()}
	require.NoError(t, s.SaveRollingMemory("scene:s1", rec))

	got, ok := s.RollingMemory("scene:s1")
	require.True(t, ok)
	assert.Equal(t, "the summary", got.Summary)
	assert.Equal(t, "abc", got.StalenessKey)
	assert.WithinDuration(t, rec.UpdatedAt, got.UpdatedAt, time.Second)

	require.NoError(t, s.SaveRollingMemory("scene:s1", story.RollingRecord{Summary: "replaced", StalenessKey: "def"}))
	got, _ = s.RollingMemory("scene:s1")
	assert.Equal(t, "replaced", got.Summary)
}

func TestMissingEntities(t *testing.T) {
	s := openTestStore(t)

	_, ok := s.Entry("missing")
	assert.False(t, ok)
	_, ok = s.Scene("missing")
	assert.False(t, ok)
	_, ok = s.Chapter("missing")
	assert.False(t, ok)
	_, ok = s.Session("missing")
	assert.False(t, ok)
	_, ok = s.ChapterOfScene("missing")
	assert.False(t, ok)
}
