package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quillhq/quill/pkg/types"
)

func TestHashContent(t *testing.T) {
	assert.Equal(t, HashContent("some scene text"), HashContent("some scene text"))
	assert.NotEqual(t, HashContent("some scene text"), HashContent("some scene text."))
	assert.NotEqual(t, HashContent(""), HashContent(" "))
}

func TestChapterFingerprint(t *testing.T) {
	a := &types.Scene{ID: "s1", Content: "first"}
	b := &types.Scene{ID: "s2", Content: "second"}
	c := &types.Scene{ID: "s3", Content: "third"}

	base := ChapterFingerprint([]*types.Scene{a, b, c})

	t.Run("stable for identical scenes", func(t *testing.T) {
		assert.Equal(t, base, ChapterFingerprint([]*types.Scene{a, b, c}))
	})

	t.Run("changes when a scene is edited", func(t *testing.T) {
		edited := &types.Scene{ID: "s2", Content: "second, revised"}
		assert.NotEqual(t, base, ChapterFingerprint([]*types.Scene{a, edited, c}))
	})

	t.Run("changes when scenes are reordered", func(t *testing.T) {
		assert.NotEqual(t, base, ChapterFingerprint([]*types.Scene{b, a, c}))
	})

	t.Run("changes when a scene is removed", func(t *testing.T) {
		assert.NotEqual(t, base, ChapterFingerprint([]*types.Scene{a, c}))
	})

	t.Run("changes when a scene is inserted", func(t *testing.T) {
		d := &types.Scene{ID: "s4", Content: "fourth"}
		assert.NotEqual(t, base, ChapterFingerprint([]*types.Scene{a, b, c, d}))
	})
}

func TestWatermarkRoundTrip(t *testing.T) {
	assert.Equal(t, 12, ParseWatermark(WatermarkKey(12)))
	assert.Equal(t, 0, ParseWatermark(""))
	assert.Equal(t, 0, ParseWatermark("not-a-number"))
	assert.Equal(t, 0, ParseWatermark("-3"))
}
