package context

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillhq/quill/pkg/story"
	"github.com/quillhq/quill/pkg/types"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Mira", "mira"},
		{"  Mira  ", "mira"},
		{"The   Old\tBridge", "the old bridge"},
		{"ALL CAPS", "all caps"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeKey(tt.in), "NormalizeKey(%q)", tt.in)
	}
}

func TestExtractTokens(t *testing.T) {
	t.Run("bracketed forms allow spaces", func(t *testing.T) {
		tokens := ExtractTokens("She meets @[The Old King] near #[Bridge at Dawn].")
		assert.Contains(t, tokens.Tags, "the old king")
		assert.Contains(t, tokens.Scenes, "bridge at dawn")
	})

	t.Run("bare forms stop at non-word characters", func(t *testing.T) {
		tokens := ExtractTokens("ask @Mira about #opening-scene, then leave")
		assert.Contains(t, tokens.Tags, "mira")
		assert.Contains(t, tokens.Scenes, "opening-scene")
	})

	t.Run("bare form needs a boundary before the trigger", func(t *testing.T) {
		tokens := ExtractTokens("mail user@example about it")
		assert.NotContains(t, tokens.Tags, "example")
	})

	t.Run("trigger at start of text", func(t *testing.T) {
		tokens := ExtractTokens("@Mira wakes up")
		assert.Contains(t, tokens.Tags, "mira")
	})

	t.Run("duplicate surface forms collapse to one key", func(t *testing.T) {
		tokens := ExtractTokens("@Mira and @[ mira ] and @MIRA")
		assert.Len(t, tokens.Tags, 1)
	})

	t.Run("bracketed form does not span lines", func(t *testing.T) {
		tokens := ExtractTokens("@[first\nsecond]")
		assert.NotContains(t, tokens.Tags, "first second")
	})

	t.Run("empty text", func(t *testing.T) {
		assert.True(t, ExtractTokens("").IsEmpty())
		assert.True(t, ExtractTokens("no mentions here").IsEmpty())
	})
}

func newResolverFixture() *story.MemStore {
	store := story.NewMemStore("Test Project")
	store.AddEntry(&types.CompendiumEntry{ID: "e1", Category: "Character", Title: "Mira", Tags: []string{"hero"}, Body: "The protagonist."})
	store.AddEntry(&types.CompendiumEntry{ID: "e2", Category: "Place", Title: "The Old Bridge", Body: "Crumbling stone."})
	store.AddEntry(&types.CompendiumEntry{ID: "e3", Category: "Character", Title: "Tomas", Tags: []string{"hero", "rival"}, Body: "The rival."})
	store.AddChapter(&types.Chapter{ID: "c1", Title: "One"},
		&types.Scene{ID: "s1", Title: "Opening", Summary: "Mira wakes."},
		&types.Scene{ID: "s2", Title: "The Crossing", Summary: "Mira crosses."},
	)
	return store
}

func TestResolve(t *testing.T) {
	resolver := NewResolver(newResolverFixture())

	t.Run("matches entry title", func(t *testing.T) {
		got := resolver.Resolve(ExtractTokens("@Mira"))
		require.Len(t, got.Entries, 1)
		assert.Equal(t, types.EntryID("e1"), got.Entries[0].ID)
	})

	t.Run("matches entry tag across entries", func(t *testing.T) {
		got := resolver.Resolve(ExtractTokens("@hero"))
		require.Len(t, got.Entries, 2)
		assert.Equal(t, types.EntryID("e1"), got.Entries[0].ID, "project order, not token order")
		assert.Equal(t, types.EntryID("e3"), got.Entries[1].ID)
	})

	t.Run("matches bracketed multi-word title", func(t *testing.T) {
		got := resolver.Resolve(ExtractTokens("near @[the old bridge]"))
		require.Len(t, got.Entries, 1)
		assert.Equal(t, types.EntryID("e2"), got.Entries[0].ID)
	})

	t.Run("matches scene title", func(t *testing.T) {
		got := resolver.Resolve(ExtractTokens("#[The Crossing]"))
		require.Len(t, got.Scenes, 1)
		assert.Equal(t, types.SceneID("s2"), got.Scenes[0].ID)
	})

	t.Run("exact match only", func(t *testing.T) {
		got := resolver.Resolve(ExtractTokens("@Mir @bridge"))
		assert.Empty(t, got.Entries)
	})

	t.Run("unknown keys contribute nothing", func(t *testing.T) {
		got := resolver.Resolve(ExtractTokens("@nobody #nowhere"))
		assert.Empty(t, got.Entries)
		assert.Empty(t, got.Scenes)
	})
}
