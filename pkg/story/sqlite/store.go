// Package sqlite provides a SQLite-backed implementation of story.Store.
// It persists project entities, per-scene context selections, and
// rolling-memory records in a single database file.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/quillhq/quill/pkg/story"
	"github.com/quillhq/quill/pkg/types"
)

// Store implements story.Store using SQLite.
type Store struct {
	db      *sql.DB
	mu      sync.Mutex // serializes id generation and rolling-memory replacement
	entropy *rand.Rand
}

// Open opens or creates a project database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("sqlite: create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("sqlite: open db: %w", err)
	}

	s := &Store{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: migrate: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) newID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS project (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS entries (
		id       TEXT PRIMARY KEY,
		category TEXT NOT NULL DEFAULT '',
		title    TEXT NOT NULL,
		body     TEXT NOT NULL DEFAULT '',
		tags     TEXT NOT NULL DEFAULT '[]',
		pos      INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_entries_pos ON entries(pos);

	CREATE TABLE IF NOT EXISTS chapters (
		id      TEXT PRIMARY KEY,
		title   TEXT NOT NULL,
		summary TEXT NOT NULL DEFAULT '',
		pos     INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_chapters_pos ON chapters(pos);

	CREATE TABLE IF NOT EXISTS scenes (
		id         TEXT PRIMARY KEY,
		chapter_id TEXT NOT NULL REFERENCES chapters(id) ON DELETE CASCADE,
		title      TEXT NOT NULL,
		content    TEXT NOT NULL DEFAULT '',
		summary    TEXT NOT NULL DEFAULT '',
		pos        INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_scenes_chapter ON scenes(chapter_id, pos);

	CREATE TABLE IF NOT EXISTS sessions (
		id   TEXT PRIMARY KEY,
		name TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS session_messages (
		session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		seq        INTEGER NOT NULL,
		role       TEXT NOT NULL,
		content    TEXT NOT NULL,
		PRIMARY KEY (session_id, seq)
	);

	CREATE TABLE IF NOT EXISTS selections (
		scene_id TEXT NOT NULL,
		kind     TEXT NOT NULL,
		ids      TEXT NOT NULL,
		PRIMARY KEY (scene_id, kind)
	);

	CREATE TABLE IF NOT EXISTS rolling_memories (
		owner         TEXT PRIMARY KEY,
		summary       TEXT NOT NULL,
		staleness_key TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return nil
}

// Import loads a project bundle into the database, generating ids for
// entities the bundle leaves blank. Existing rows with the same ids are
// replaced.
func (s *Store) Import(b *story.Bundle) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("sqlite: begin import: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT OR REPLACE INTO project(key, value) VALUES('title', ?)`, b.Title); err != nil {
		return fmt.Errorf("sqlite: import title: %w", err)
	}

	for i, e := range b.Entries {
		id := e.ID
		if id == "" {
			id = s.newID()
		}
		tags, err := json.Marshal(e.Tags)
		if err != nil {
			return fmt.Errorf("sqlite: marshal tags: %w", err)
		}
		if _, err := tx.Exec(
			`INSERT OR REPLACE INTO entries(id, category, title, body, tags, pos) VALUES(?, ?, ?, ?, ?, ?)`,
			id, e.Category, e.Title, e.Body, string(tags), i,
		); err != nil {
			return fmt.Errorf("sqlite: import entry %q: %w", e.Title, err)
		}
	}

	for ci, c := range b.Chapters {
		cid := c.ID
		if cid == "" {
			cid = s.newID()
		}
		if _, err := tx.Exec(
			`INSERT OR REPLACE INTO chapters(id, title, summary, pos) VALUES(?, ?, ?, ?)`,
			cid, c.Title, c.Summary, ci,
		); err != nil {
			return fmt.Errorf("sqlite: import chapter %q: %w", c.Title, err)
		}
		for si, sc := range c.Scenes {
			sid := sc.ID
			if sid == "" {
				sid = s.newID()
			}
			if _, err := tx.Exec(
				`INSERT OR REPLACE INTO scenes(id, chapter_id, title, content, summary, pos) VALUES(?, ?, ?, ?, ?, ?)`,
				sid, cid, sc.Title, sc.Content, sc.Summary, si,
			); err != nil {
				return fmt.Errorf("sqlite: import scene %q: %w", sc.Title, err)
			}
		}
	}

	for _, sess := range b.Sessions {
		sid := sess.ID
		if sid == "" {
			sid = s.newID()
		}
		if _, err := tx.Exec(`INSERT OR REPLACE INTO sessions(id, name) VALUES(?, ?)`, sid, sess.Name); err != nil {
			return fmt.Errorf("sqlite: import session %q: %w", sess.Name, err)
		}
		if _, err := tx.Exec(`DELETE FROM session_messages WHERE session_id = ?`, sid); err != nil {
			return fmt.Errorf("sqlite: clear session messages: %w", err)
		}
		for seq, m := range sess.Messages {
			if _, err := tx.Exec(
				`INSERT INTO session_messages(session_id, seq, role, content) VALUES(?, ?, ?, ?)`,
				sid, seq, m.Role, m.Content,
			); err != nil {
				return fmt.Errorf("sqlite: import session message: %w", err)
			}
		}
	}

	return tx.Commit()
}

func (s *Store) ProjectTitle() string {
	var title string
	err := s.db.QueryRow(`SELECT value FROM project WHERE key = 'title'`).Scan(&title)
	if err != nil {
		return ""
	}
	return title
}

func (s *Store) Entry(id types.EntryID) (*types.CompendiumEntry, bool) {
	row := s.db.QueryRow(`SELECT id, category, title, body, tags FROM entries WHERE id = ?`, string(id))
	e, err := scanEntry(row)
	if err != nil {
		return nil, false
	}
	return e, true
}

func (s *Store) Entries() []*types.CompendiumEntry {
	rows, err := s.db.Query(`SELECT id, category, title, body, tags FROM entries ORDER BY pos`)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var out []*types.CompendiumEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			continue
		}
		out = append(out, e)
	}
	return out
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*types.CompendiumEntry, error) {
	var e types.CompendiumEntry
	var id, tags string
	if err := row.Scan(&id, &e.Category, &e.Title, &e.Body, &tags); err != nil {
		return nil, err
	}
	e.ID = types.EntryID(id)
	if err := json.Unmarshal([]byte(tags), &e.Tags); err != nil {
		e.Tags = nil
	}
	return &e, nil
}

func (s *Store) Scene(id types.SceneID) (*types.Scene, bool) {
	row := s.db.QueryRow(`SELECT id, title, content, summary FROM scenes WHERE id = ?`, string(id))
	var sc types.Scene
	var sid string
	if err := row.Scan(&sid, &sc.Title, &sc.Content, &sc.Summary); err != nil {
		return nil, false
	}
	sc.ID = types.SceneID(sid)
	return &sc, true
}

func (s *Store) Scenes() []*types.Scene {
	rows, err := s.db.Query(`
		SELECT s.id, s.title, s.content, s.summary
		FROM scenes s JOIN chapters c ON s.chapter_id = c.id
		ORDER BY c.pos, s.pos`)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var out []*types.Scene
	for rows.Next() {
		var sc types.Scene
		var sid string
		if err := rows.Scan(&sid, &sc.Title, &sc.Content, &sc.Summary); err != nil {
			continue
		}
		sc.ID = types.SceneID(sid)
		out = append(out, &sc)
	}
	return out
}

func (s *Store) Chapter(id types.ChapterID) (*types.Chapter, bool) {
	row := s.db.QueryRow(`SELECT id, title, summary FROM chapters WHERE id = ?`, string(id))
	c, err := s.scanChapter(row)
	if err != nil {
		return nil, false
	}
	return c, true
}

func (s *Store) Chapters() []*types.Chapter {
	rows, err := s.db.Query(`SELECT id, title, summary FROM chapters ORDER BY pos`)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var out []*types.Chapter
	for rows.Next() {
		c, err := s.scanChapter(rows)
		if err != nil {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (s *Store) scanChapter(row rowScanner) (*types.Chapter, error) {
	var c types.Chapter
	var id string
	if err := row.Scan(&id, &c.Title, &c.Summary); err != nil {
		return nil, err
	}
	c.ID = types.ChapterID(id)

	rows, err := s.db.Query(`SELECT id FROM scenes WHERE chapter_id = ? ORDER BY pos`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var sid string
		if err := rows.Scan(&sid); err != nil {
			continue
		}
		c.SceneIDs = append(c.SceneIDs, types.SceneID(sid))
	}
	return &c, nil
}

func (s *Store) ChapterOfScene(id types.SceneID) (*types.Chapter, bool) {
	var cid string
	if err := s.db.QueryRow(`SELECT chapter_id FROM scenes WHERE id = ?`, string(id)).Scan(&cid); err != nil {
		return nil, false
	}
	return s.Chapter(types.ChapterID(cid))
}

func (s *Store) Session(id types.SessionID) (*types.WorkshopSession, bool) {
	row := s.db.QueryRow(`SELECT id, name FROM sessions WHERE id = ?`, string(id))
	var sess types.WorkshopSession
	var sid string
	if err := row.Scan(&sid, &sess.Name); err != nil {
		return nil, false
	}
	sess.ID = types.SessionID(sid)

	rows, err := s.db.Query(`SELECT role, content FROM session_messages WHERE session_id = ? ORDER BY seq`, sid)
	if err != nil {
		return nil, false
	}
	defer rows.Close()
	for rows.Next() {
		var role, content string
		if err := rows.Scan(&role, &content); err != nil {
			continue
		}
		sess.Messages = append(sess.Messages, &types.Message{
			Role:    types.MessageRole(role),
			Content: content,
		})
	}
	return &sess, true
}

func (s *Store) Selection(scene types.SceneID, kind types.ReferenceKind) []string {
	var raw string
	err := s.db.QueryRow(
		`SELECT ids FROM selections WHERE scene_id = ? AND kind = ?`,
		string(scene), string(kind),
	).Scan(&raw)
	if err != nil {
		return nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil
	}
	return ids
}

func (s *Store) SaveSelection(scene types.SceneID, kind types.ReferenceKind, ids []string) error {
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("sqlite: marshal selection: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO selections(scene_id, kind, ids) VALUES(?, ?, ?)`,
		string(scene), string(kind), string(raw),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save selection: %w", err)
	}
	return nil
}

func (s *Store) RollingMemory(owner string) (story.RollingRecord, bool) {
	var rec story.RollingRecord
	var updatedAt string
	err := s.db.QueryRow(
		`SELECT summary, staleness_key, updated_at FROM rolling_memories WHERE owner = ?`,
		owner,
	).Scan(&rec.Summary, &rec.StalenessKey, &updatedAt)
	if err != nil {
		return story.RollingRecord{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(updatedAt)); err == nil {
		rec.UpdatedAt = t
	}
	return rec, true
}

func (s *Store) SaveRollingMemory(owner string, rec story.RollingRecord) error {
	// INSERT OR REPLACE is a single statement, so readers see the old or the
	// new row, never a mix.
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO rolling_memories(owner, summary, staleness_key, updated_at) VALUES(?, ?, ?, ?)`,
		owner, rec.Summary, rec.StalenessKey, rec.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save rolling memory: %w", err)
	}
	return nil
}
