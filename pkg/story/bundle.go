package story

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/quillhq/quill/pkg/types"
)

// Bundle is the on-disk YAML representation of a project used by the CLI to
// seed a store. It mirrors the entity model but carries no selections or
// rolling-memory records, which are derived state.
type Bundle struct {
	Title    string          `yaml:"title"`
	Entries  []BundleEntry   `yaml:"compendium,omitempty"`
	Chapters []BundleChapter `yaml:"chapters,omitempty"`
	Sessions []BundleSession `yaml:"sessions,omitempty"`
}

type BundleEntry struct {
	ID       string   `yaml:"id"`
	Category string   `yaml:"category"`
	Title    string   `yaml:"title"`
	Body     string   `yaml:"body,omitempty"`
	Tags     []string `yaml:"tags,omitempty"`
}

type BundleChapter struct {
	ID      string        `yaml:"id"`
	Title   string        `yaml:"title"`
	Summary string        `yaml:"summary,omitempty"`
	Scenes  []BundleScene `yaml:"scenes,omitempty"`
}

type BundleScene struct {
	ID      string `yaml:"id"`
	Title   string `yaml:"title"`
	Content string `yaml:"content,omitempty"`
	Summary string `yaml:"summary,omitempty"`
}

type BundleSession struct {
	ID       string          `yaml:"id"`
	Name     string          `yaml:"name"`
	Messages []BundleMessage `yaml:"messages,omitempty"`
}

type BundleMessage struct {
	Role    string `yaml:"role"`
	Content string `yaml:"content"`
}

// LoadBundle reads and parses a project bundle file.
func LoadBundle(path string) (*Bundle, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("story: read bundle %s: %w", path, err)
	}
	var bundle Bundle
	if err := yaml.Unmarshal(b, &bundle); err != nil {
		return nil, fmt.Errorf("story: parse bundle %s: %w", path, err)
	}
	return &bundle, nil
}

// Populate writes the bundle's entities into dst. Entities with empty ids are
// assigned ids by the destination store if it supports generation; the
// in-memory store requires ids to be present in the bundle.
func (b *Bundle) Populate(dst interface {
	AddEntry(*types.CompendiumEntry)
	AddChapter(*types.Chapter, ...*types.Scene)
	AddSession(*types.WorkshopSession)
}) {
	for _, e := range b.Entries {
		dst.AddEntry(&types.CompendiumEntry{
			ID:       types.EntryID(e.ID),
			Category: e.Category,
			Title:    e.Title,
			Body:     e.Body,
			Tags:     e.Tags,
		})
	}
	for _, c := range b.Chapters {
		chapter := &types.Chapter{
			ID:      types.ChapterID(c.ID),
			Title:   c.Title,
			Summary: c.Summary,
		}
		scenes := make([]*types.Scene, 0, len(c.Scenes))
		for _, sc := range c.Scenes {
			scenes = append(scenes, &types.Scene{
				ID:      types.SceneID(sc.ID),
				Title:   sc.Title,
				Content: sc.Content,
				Summary: sc.Summary,
			})
		}
		dst.AddChapter(chapter, scenes...)
	}
	for _, sess := range b.Sessions {
		session := &types.WorkshopSession{
			ID:   types.SessionID(sess.ID),
			Name: sess.Name,
		}
		for _, m := range sess.Messages {
			session.Messages = append(session.Messages, &types.Message{
				Role:    types.MessageRole(m.Role),
				Content: m.Content,
			})
		}
		dst.AddSession(session)
	}
}
