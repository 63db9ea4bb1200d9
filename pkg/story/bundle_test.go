package story

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillhq/quill/pkg/types"
)

const testBundle = `title: The Crossing
compendium:
  - id: e1
    category: Character
    title: Mira
    tags: [hero]
    body: The protagonist.
chapters:
  - id: c1
    title: One
    summary: Mira sets out.
    scenes:
      - id: s1
        title: Opening
        content: Mira wakes before dawn.
        summary: Mira wakes.
sessions:
  - id: w1
    name: Brainstorm
    messages:
      - role: user
        content: What should happen next?
      - role: assistant
        content: Raise the stakes.
`

func writeTestBundle(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "project.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testBundle), 0o600))
	return path
}

func TestLoadBundle(t *testing.T) {
	bundle, err := LoadBundle(writeTestBundle(t))
	require.NoError(t, err)

	assert.Equal(t, "The Crossing", bundle.Title)
	require.Len(t, bundle.Entries, 1)
	assert.Equal(t, []string{"hero"}, bundle.Entries[0].Tags)
	require.Len(t, bundle.Chapters, 1)
	require.Len(t, bundle.Chapters[0].Scenes, 1)
	require.Len(t, bundle.Sessions, 1)
	assert.Len(t, bundle.Sessions[0].Messages, 2)
}

func TestLoadBundleErrors(t *testing.T) {
	_, err := LoadBundle(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("title: [unclosed"), 0o600))
	_, err = LoadBundle(bad)
	assert.Error(t, err)
}

func TestBundlePopulate(t *testing.T) {
	bundle, err := LoadBundle(writeTestBundle(t))
	require.NoError(t, err)

	store := NewMemStore(bundle.Title)
	bundle.Populate(store)

	entry, ok := store.Entry("e1")
	require.True(t, ok)
	assert.Equal(t, "Mira", entry.Title)

	chapter, ok := store.Chapter("c1")
	require.True(t, ok)
	assert.Equal(t, []types.SceneID{"s1"}, chapter.SceneIDs)

	scene, ok := store.Scene("s1")
	require.True(t, ok)
	assert.Equal(t, "Mira wakes before dawn.", scene.Content)

	session, ok := store.Session("w1")
	require.True(t, ok)
	assert.Equal(t, 2, session.NonEmptyMessageCount())
	assert.Equal(t, types.RoleAssistant, session.Messages[1].Role)
}
