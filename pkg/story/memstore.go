package story

import (
	"sync"

	"github.com/quillhq/quill/pkg/types"
)

// MemStore is an in-memory Store implementation. It backs tests and projects
// loaded from a bundle file without a database.
type MemStore struct {
	mu         sync.RWMutex
	title      string
	entries    []*types.CompendiumEntry
	chapters   []*types.Chapter
	scenes     map[types.SceneID]*types.Scene
	sessions   map[types.SessionID]*types.WorkshopSession
	selections map[selectionKey][]string
	memories   map[string]RollingRecord
}

type selectionKey struct {
	scene types.SceneID
	kind  types.ReferenceKind
}

// NewMemStore creates an empty in-memory store.
func NewMemStore(title string) *MemStore {
	return &MemStore{
		title:      title,
		scenes:     make(map[types.SceneID]*types.Scene),
		sessions:   make(map[types.SessionID]*types.WorkshopSession),
		selections: make(map[selectionKey][]string),
		memories:   make(map[string]RollingRecord),
	}
}

// AddEntry appends a compendium entry in project order.
func (s *MemStore) AddEntry(e *types.CompendiumEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
}

// AddChapter appends a chapter in manuscript order along with its scenes.
// The chapter's SceneIDs field is set from the scene order given here.
func (s *MemStore) AddChapter(c *types.Chapter, scenes ...*types.Scene) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.SceneIDs = c.SceneIDs[:0]
	for _, sc := range scenes {
		c.SceneIDs = append(c.SceneIDs, sc.ID)
		s.scenes[sc.ID] = sc
	}
	s.chapters = append(s.chapters, c)
}

// AddSession registers a workshop session.
func (s *MemStore) AddSession(sess *types.WorkshopSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
}

// RemoveEntry deletes a compendium entry, simulating entity deletion.
func (s *MemStore) RemoveEntry(id types.EntryID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.entries[:0]
	for _, e := range s.entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	s.entries = kept
}

// SetSceneContent replaces a scene's content, simulating an edit.
func (s *MemStore) SetSceneContent(id types.SceneID, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sc, ok := s.scenes[id]; ok {
		sc.Content = content
	}
}

func (s *MemStore) ProjectTitle() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.title
}

func (s *MemStore) Entry(id types.EntryID) (*types.CompendiumEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

func (s *MemStore) Entries() []*types.CompendiumEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*types.CompendiumEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *MemStore) Scene(id types.SceneID) (*types.Scene, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sc, ok := s.scenes[id]
	return sc, ok
}

func (s *MemStore) Scenes() []*types.Scene {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*types.Scene
	for _, c := range s.chapters {
		for _, id := range c.SceneIDs {
			if sc, ok := s.scenes[id]; ok {
				out = append(out, sc)
			}
		}
	}
	return out
}

func (s *MemStore) Chapter(id types.ChapterID) (*types.Chapter, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.chapters {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

func (s *MemStore) Chapters() []*types.Chapter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*types.Chapter, len(s.chapters))
	copy(out, s.chapters)
	return out
}

func (s *MemStore) ChapterOfScene(id types.SceneID) (*types.Chapter, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.chapters {
		for _, sid := range c.SceneIDs {
			if sid == id {
				return c, true
			}
		}
	}
	return nil, false
}

func (s *MemStore) Session(id types.SessionID) (*types.WorkshopSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

func (s *MemStore) Selection(scene types.SceneID, kind types.ReferenceKind) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.selections[selectionKey{scene, kind}]
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

func (s *MemStore) SaveSelection(scene types.SceneID, kind types.ReferenceKind, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]string, len(ids))
	copy(stored, ids)
	s.selections[selectionKey{scene, kind}] = stored
	return nil
}

func (s *MemStore) RollingMemory(owner string) (RollingRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.memories[owner]
	return rec, ok
}

func (s *MemStore) SaveRollingMemory(owner string, rec RollingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memories[owner] = rec
	return nil
}
