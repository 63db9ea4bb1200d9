package context

import (
	"github.com/quillhq/quill/pkg/story"
	"github.com/quillhq/quill/pkg/types"
)

// SelectionStore manages the explicit per-scene context selections. Each
// scene holds one ordered, deduplicated id list per reference kind. Reads
// sanitize the list against the live entity set; ids whose entity was
// deleted are dropped silently and the cleaned list is persisted back.
type SelectionStore struct {
	store story.Store
}

// NewSelectionStore creates a selection store over the given project store.
func NewSelectionStore(store story.Store) *SelectionStore {
	return &SelectionStore{store: store}
}

// Selected returns the ordered selection for a scene and kind, with stale ids
// removed. A selection referencing only deleted entities returns nil.
func (s *SelectionStore) Selected(scene types.SceneID, kind types.ReferenceKind) []string {
	ids := s.store.Selection(scene, kind)
	if len(ids) == 0 {
		return nil
	}

	live := ids[:0]
	for _, id := range ids {
		if s.isLive(kind, id) {
			live = append(live, id)
		}
	}
	if len(live) < len(ids) {
		// Persist the sanitized list so stale ids do not accumulate.
		_ = s.store.SaveSelection(scene, kind, live)
	}
	if len(live) == 0 {
		return nil
	}
	out := make([]string, len(live))
	copy(out, live)
	return out
}

// Toggle removes the id if it is selected, otherwise appends it. The relative
// order of all other ids is preserved.
func (s *SelectionStore) Toggle(scene types.SceneID, kind types.ReferenceKind, id string) error {
	ids := s.store.Selection(scene, kind)

	kept := make([]string, 0, len(ids)+1)
	removed := false
	for _, existing := range ids {
		if existing == id {
			removed = true
			continue
		}
		kept = append(kept, existing)
	}
	if !removed {
		kept = append(kept, id)
	}
	return s.store.SaveSelection(scene, kind, kept)
}

// Clear removes every selection for a scene and kind.
func (s *SelectionStore) Clear(scene types.SceneID, kind types.ReferenceKind) error {
	return s.store.SaveSelection(scene, kind, nil)
}

func (s *SelectionStore) isLive(kind types.ReferenceKind, id string) bool {
	switch kind {
	case types.RefCompendium:
		_, ok := s.store.Entry(types.EntryID(id))
		return ok
	case types.RefSceneSummary:
		_, ok := s.store.Scene(types.SceneID(id))
		return ok
	case types.RefChapterSummary:
		_, ok := s.store.Chapter(types.ChapterID(id))
		return ok
	default:
		return false
	}
}
