package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildMergePrompt(t *testing.T) {
	t.Run("empty existing memory", func(t *testing.T) {
		prompt := BuildMergePrompt("", "new scene text")
		assert.Contains(t, prompt, "Current memory:\n(empty)")
		assert.Contains(t, prompt, "New material:\nnew scene text")
		assert.True(t, strings.HasSuffix(prompt, "Return the updated memory."))
	})

	t.Run("whitespace-only existing memory counts as empty", func(t *testing.T) {
		prompt := BuildMergePrompt("  \n ", "text")
		assert.Contains(t, prompt, "(empty)")
	})

	t.Run("existing memory is embedded verbatim", func(t *testing.T) {
		prompt := BuildMergePrompt("Mira crossed the bridge.", "text")
		assert.Contains(t, prompt, "Current memory:\nMira crossed the bridge.")
		assert.NotContains(t, prompt, "(empty)")
	})
}

func TestCapText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"under the cap", "short", 10, "short"},
		{"exactly the cap", "12345", 5, "12345"},
		{"over the cap", "1234567", 5, "12345"},
		{"zero disables the cap", "anything", 0, "anything"},
		{"negative disables the cap", "anything", -1, "anything"},
		{"multibyte counts runes", "héllo", 2, "hé"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CapText(tt.in, tt.max))
		})
	}
}
