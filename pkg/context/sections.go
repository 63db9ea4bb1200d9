package context

import (
	"fmt"
	"strings"

	"github.com/quillhq/quill/pkg/story"
	"github.com/quillhq/quill/pkg/types"
)

// Section names one block of the combined context output.
type Section string

const (
	SectionCompendium       Section = "compendium"
	SectionSceneSummaries   Section = "scene_summaries"
	SectionChapterSummaries Section = "chapter_summaries"
)

// DefaultSectionOrder is the ordering the combined output uses unless
// configured otherwise. The order itself is a product decision carried over
// for compatibility; nothing downstream depends on it structurally.
var DefaultSectionOrder = []Section{SectionCompendium, SectionSceneSummaries, SectionChapterSummaries}

// SceneContextSections is the fixed set of named text blocks the builder
// produces for one scene. Combined concatenates the per-kind blocks in the
// configured order; empty blocks contribute nothing.
type SceneContextSections struct {
	Combined         string
	Compendium       string
	SceneSummaries   string
	ChapterSummaries string
}

// Builder merges explicit selections and inferred mentions into formatted
// context sections. It is synchronous and pure with respect to its inputs;
// rolling-memory text is deliberately not part of its output so templates can
// address memory separately.
type Builder struct {
	store     story.Store
	selection *SelectionStore
	resolver  *Resolver
	order     []Section
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithSectionOrder overrides the combined-output section order.
func WithSectionOrder(order []Section) BuilderOption {
	return func(b *Builder) {
		if len(order) > 0 {
			b.order = order
		}
	}
}

// NewBuilder creates a section builder over the given store.
func NewBuilder(store story.Store, opts ...BuilderOption) *Builder {
	b := &Builder{
		store:     store,
		selection: NewSelectionStore(store),
		resolver:  NewResolver(store),
		order:     DefaultSectionOrder,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SelectionStore exposes the builder's selection store so callers can toggle
// selections through the same sanitizing path the builder reads from.
func (b *Builder) SelectionStore() *SelectionStore {
	return b.selection
}

// BuildSections assembles the context sections for a scene. When
// includeSelection is false the explicit selections are ignored and only
// mentions contribute. mentionSource may be empty.
func (b *Builder) BuildSections(sceneID types.SceneID, mentionSource string, includeSelection bool) SceneContextSections {
	var mentions ResolvedMentions
	if mentionSource != "" {
		mentions = b.resolver.Resolve(ExtractTokens(mentionSource))
	}

	var selectedEntries, selectedScenes, selectedChapters []string
	if includeSelection {
		selectedEntries = b.selection.Selected(sceneID, types.RefCompendium)
		selectedScenes = b.selection.Selected(sceneID, types.RefSceneSummary)
		selectedChapters = b.selection.Selected(sceneID, types.RefChapterSummary)
	}

	sections := SceneContextSections{
		Compendium:       b.compendiumBlock(selectedEntries, mentions.Entries),
		SceneSummaries:   b.sceneSummaryBlock(selectedScenes, mentions.Scenes),
		ChapterSummaries: b.chapterSummaryBlock(selectedChapters),
	}

	var parts []string
	for _, section := range b.order {
		text := sections.block(section)
		if text != "" {
			parts = append(parts, text)
		}
	}
	sections.Combined = strings.Join(parts, "\n")
	return sections
}

func (s SceneContextSections) block(section Section) string {
	switch section {
	case SectionCompendium:
		return s.Compendium
	case SectionSceneSummaries:
		return s.SceneSummaries
	case SectionChapterSummaries:
		return s.ChapterSummaries
	default:
		return ""
	}
}

// compendiumBlock merges explicit and mentioned entries, deduplicated by id:
// explicit ids first in stored order, then mentioned entries not already
// present in the order the project traversal found them.
func (b *Builder) compendiumBlock(selectedIDs []string, mentioned []*types.CompendiumEntry) string {
	seen := make(map[types.EntryID]bool)
	var lines []string

	for _, id := range selectedIDs {
		entry, ok := b.store.Entry(types.EntryID(id))
		if !ok || seen[entry.ID] {
			continue
		}
		seen[entry.ID] = true
		lines = append(lines, formatEntryLine(entry))
	}
	for _, entry := range mentioned {
		if seen[entry.ID] {
			continue
		}
		seen[entry.ID] = true
		lines = append(lines, formatEntryLine(entry))
	}
	return strings.Join(lines, "\n")
}

// sceneSummaryBlock merges explicit and mentioned scene summaries. Mentions
// resolve by title rather than id, so deduplication uses the composite key
// (chapter title, scene title, summary text) instead of the scene id.
func (b *Builder) sceneSummaryBlock(selectedIDs []string, mentioned []*types.Scene) string {
	seen := make(map[string]bool)
	var lines []string

	add := func(scene *types.Scene) {
		chapterTitle := ""
		if chapter, ok := b.store.ChapterOfScene(scene.ID); ok {
			chapterTitle = chapter.Title
		}
		key := chapterTitle + "\x00" + scene.Title + "\x00" + scene.Summary
		if seen[key] {
			return
		}
		seen[key] = true
		lines = append(lines, fmt.Sprintf("- [Scene Summary] %s / %s: %s", chapterTitle, scene.Title, scene.Summary))
	}

	for _, id := range selectedIDs {
		if scene, ok := b.store.Scene(types.SceneID(id)); ok {
			add(scene)
		}
	}
	for _, scene := range mentioned {
		add(scene)
	}
	return strings.Join(lines, "\n")
}

// chapterSummaryBlock formats explicitly selected chapter summaries. Mentions
// never target chapters.
func (b *Builder) chapterSummaryBlock(selectedIDs []string) string {
	seen := make(map[types.ChapterID]bool)
	var lines []string
	for _, id := range selectedIDs {
		chapter, ok := b.store.Chapter(types.ChapterID(id))
		if !ok || seen[chapter.ID] {
			continue
		}
		seen[chapter.ID] = true
		lines = append(lines, fmt.Sprintf("- [Chapter Summary] %s: %s", chapter.Title, chapter.Summary))
	}
	return strings.Join(lines, "\n")
}

func formatEntryLine(entry *types.CompendiumEntry) string {
	var sb strings.Builder
	sb.WriteString("- [")
	sb.WriteString(entry.Category)
	sb.WriteString("] ")
	sb.WriteString(entry.Title)
	if len(entry.Tags) > 0 {
		sb.WriteString(" [tags: ")
		sb.WriteString(strings.Join(entry.Tags, ", "))
		sb.WriteString("]")
	}
	sb.WriteString(": ")
	sb.WriteString(entry.Body)
	return sb.String()
}
