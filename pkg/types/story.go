// Package types defines the shared data model for Quill: story entities owned
// by the persistence layer, chat messages, and the events emitted by
// long-running operations.
package types

// Typed identifiers for story entities. The persistence layer owns identity;
// everything else treats these as opaque.
type (
	// EntryID identifies a compendium entry.
	EntryID string

	// SceneID identifies a scene.
	SceneID string

	// ChapterID identifies a chapter.
	ChapterID string

	// SessionID identifies a workshop chat session.
	SessionID string
)

// ReferenceKind names the per-scene selection buckets a scene can hold
// context references in.
type ReferenceKind string

const (
	RefCompendium     ReferenceKind = "compendium"
	RefSceneSummary   ReferenceKind = "scene_summary"
	RefChapterSummary ReferenceKind = "chapter_summary"
)

// ReferenceKinds lists all selection buckets in a stable order.
var ReferenceKinds = []ReferenceKind{RefCompendium, RefSceneSummary, RefChapterSummary}

// CompendiumEntry is a reusable world-building note: a character, location,
// lore fragment, or item with a title, free-text body, and tags.
type CompendiumEntry struct {
	ID       EntryID
	Category string
	Title    string
	Body     string
	Tags     []string
}

// Scene is a unit of manuscript text inside a chapter.
type Scene struct {
	ID      SceneID
	Title   string
	Content string
	Summary string
}

// Chapter groups scenes in manuscript order.
type Chapter struct {
	ID       ChapterID
	Title    string
	Summary  string
	SceneIDs []SceneID
}

// WorkshopSession is a free-form chat session attached to a project.
type WorkshopSession struct {
	ID       SessionID
	Name     string
	Messages []*Message
}

// NonEmptyMessageCount returns how many messages in the session carry
// non-blank content. The workshop memory watermark counts these, so blank
// messages never advance it.
func (s *WorkshopSession) NonEmptyMessageCount() int {
	n := 0
	for _, m := range s.Messages {
		if m != nil && len(m.Content) > 0 && !isBlank(m.Content) {
			n++
		}
	}
	return n
}

func isBlank(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\n', '\r':
		default:
			return false
		}
	}
	return true
}
