// Package story defines the persistence boundary for Quill projects: read
// access to compendium entries, scenes, chapters and workshop sessions, plus
// write access for the two things the context core owns: per-scene context
// selections and rolling-memory records.
package story

import (
	"errors"
	"time"

	"github.com/quillhq/quill/pkg/types"
)

var ErrNotFound = errors.New("story: entity not found")

// RollingRecord is a persisted rolling-memory summary together with the
// staleness key it was computed against. The key format depends on the owner:
// a content hash for scenes, a composite fingerprint for chapters, and a
// stringified message-count watermark for workshop sessions.
type RollingRecord struct {
	Summary      string
	StalenessKey string
	UpdatedAt    time.Time
}

// Store is the repository abstraction over a writing project. Implementations
// must be safe for concurrent use, and SaveRollingMemory must replace the
// record atomically; concurrent readers observe either the fully-old or
// fully-new record, never a partial update.
type Store interface {
	// ProjectTitle returns the project's display title.
	ProjectTitle() string

	// Entry returns the compendium entry with the given id, if it exists.
	Entry(id types.EntryID) (*types.CompendiumEntry, bool)

	// Entries returns all compendium entries in stable project order.
	Entries() []*types.CompendiumEntry

	// Scene returns the scene with the given id, if it exists.
	Scene(id types.SceneID) (*types.Scene, bool)

	// Scenes returns all scenes in manuscript order (chapter order, then
	// scene order within each chapter).
	Scenes() []*types.Scene

	// Chapter returns the chapter with the given id, if it exists.
	Chapter(id types.ChapterID) (*types.Chapter, bool)

	// Chapters returns all chapters in manuscript order.
	Chapters() []*types.Chapter

	// ChapterOfScene returns the chapter containing the given scene.
	ChapterOfScene(id types.SceneID) (*types.Chapter, bool)

	// Session returns the workshop session with the given id, if it exists.
	Session(id types.SessionID) (*types.WorkshopSession, bool)

	// Selection returns the ordered entity ids selected for a scene under
	// the given reference kind. The returned slice is owned by the caller.
	Selection(scene types.SceneID, kind types.ReferenceKind) []string

	// SaveSelection replaces the ordered selection list for a scene and kind.
	SaveSelection(scene types.SceneID, kind types.ReferenceKind, ids []string) error

	// RollingMemory returns the persisted record for the given owner key
	// ("scene:<id>", "chapter:<id>", "workshop:<id>"), if any.
	RollingMemory(owner string) (RollingRecord, bool)

	// SaveRollingMemory atomically replaces the record for the given owner.
	SaveRollingMemory(owner string, rec RollingRecord) error
}
