// Package context assembles prompt context for a scene: inline mentions
// parsed out of free text, explicit per-scene selections, and the merged,
// formatted context sections handed to the template renderer.
package context

import (
	"regexp"
	"strings"

	"github.com/quillhq/quill/pkg/story"
	"github.com/quillhq/quill/pkg/types"
)

// Mention token syntaxes. The bracketed form allows internal whitespace; the
// bare form is a letter/digit/underscore/hyphen run that must be preceded by
// start-of-text or a non-word character, so "user@example" is not a mention.
var (
	tagBracketRegex   = regexp.MustCompile(`@\[([^\[\]\n]+)\]`)
	sceneBracketRegex = regexp.MustCompile(`#\[([^\[\]\n]+)\]`)
	tagBareRegex      = regexp.MustCompile(`(?:^|[^\w])@([\w-]+)`)
	sceneBareRegex    = regexp.MustCompile(`(?:^|[^\w])#([\w-]+)`)
	whitespaceRegex   = regexp.MustCompile(`\s+`)
)

// MentionTokens holds the normalized keys extracted from a free-text source,
// split by trigger character: @ keys target compendium entries (by title or
// tag), # keys target scenes (by title).
type MentionTokens struct {
	Tags   map[string]struct{}
	Scenes map[string]struct{}
}

// IsEmpty reports whether no tokens were found.
func (t MentionTokens) IsEmpty() bool {
	return len(t.Tags) == 0 && len(t.Scenes) == 0
}

// NormalizeKey maps a surface form into the shared mention key space:
// trimmed, internal whitespace collapsed to single spaces, lowercased.
// "@Name" and "@[ name ]" normalize to the same key.
func NormalizeKey(s string) string {
	return strings.ToLower(whitespaceRegex.ReplaceAllString(strings.TrimSpace(s), " "))
}

// ExtractTokens scans free text for mention tokens. It performs no entity
// lookup; a key with no matching entity simply contributes nothing later.
func ExtractTokens(text string) MentionTokens {
	tokens := MentionTokens{
		Tags:   make(map[string]struct{}),
		Scenes: make(map[string]struct{}),
	}
	if text == "" {
		return tokens
	}

	collect := func(re *regexp.Regexp, into map[string]struct{}) {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			key := NormalizeKey(m[1])
			if key != "" {
				into[key] = struct{}{}
			}
		}
	}
	collect(tagBracketRegex, tokens.Tags)
	collect(tagBareRegex, tokens.Tags)
	collect(sceneBracketRegex, tokens.Scenes)
	collect(sceneBareRegex, tokens.Scenes)

	return tokens
}

// ResolvedMentions holds the entities a set of tokens matched, in project
// traversal order.
type ResolvedMentions struct {
	Entries []*types.CompendiumEntry
	Scenes  []*types.Scene
}

// Resolver matches mention tokens against project entities. Matching is
// exact-after-normalization against compendium titles, compendium tags, and
// scene titles, never fuzzy or substring.
type Resolver struct {
	store story.Store
}

// NewResolver creates a resolver over the given store.
func NewResolver(store story.Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve returns every entity whose normalized title or tag equals a
// requested key. Entities appear in the order the project traversal
// encounters them, not token order.
func (r *Resolver) Resolve(tokens MentionTokens) ResolvedMentions {
	var resolved ResolvedMentions
	if tokens.IsEmpty() {
		return resolved
	}

	if len(tokens.Tags) > 0 {
		for _, entry := range r.store.Entries() {
			if entryMatches(entry, tokens.Tags) {
				resolved.Entries = append(resolved.Entries, entry)
			}
		}
	}

	if len(tokens.Scenes) > 0 {
		for _, scene := range r.store.Scenes() {
			if _, ok := tokens.Scenes[NormalizeKey(scene.Title)]; ok {
				resolved.Scenes = append(resolved.Scenes, scene)
			}
		}
	}

	return resolved
}

func entryMatches(entry *types.CompendiumEntry, keys map[string]struct{}) bool {
	if _, ok := keys[NormalizeKey(entry.Title)]; ok {
		return true
	}
	for _, tag := range entry.Tags {
		if _, ok := keys[NormalizeKey(tag)]; ok {
			return true
		}
	}
	return false
}
