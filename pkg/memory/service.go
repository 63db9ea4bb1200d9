package memory

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/quillhq/quill/pkg/llm"
	"github.com/quillhq/quill/pkg/llm/tokenizer"
	"github.com/quillhq/quill/pkg/logging"
	"github.com/quillhq/quill/pkg/prompts"
	"github.com/quillhq/quill/pkg/story"
	"github.com/quillhq/quill/pkg/types"
)

var (
	// ErrRefreshCancelled reports that a refresh was superseded or its
	// context cancelled. It is a normal outcome, not an operational failure.
	ErrRefreshCancelled = errors.New("memory: refresh cancelled")

	// ErrEmptySummary reports a degenerate (empty after normalization)
	// response from the generate capability.
	ErrEmptySummary = errors.New("memory: empty summary response")
)

var debugLog *logging.Logger

func init() {
	var err error
	debugLog, err = logging.NewLogger("memory")
	if err != nil {
		debugLog.Warnf("Failed to initialize memory logger, using stderr fallback: %v", err)
	}
}

// Owner keys for persisted rolling-memory records.
func SceneOwner(id types.SceneID) string      { return "scene:" + string(id) }
func ChapterOwner(id types.ChapterID) string  { return "chapter:" + string(id) }
func WorkshopOwner(id types.SessionID) string { return "workshop:" + string(id) }

// Service is the rolling-memory cache: validity checks are pure reads, and
// the Refresh methods run the asynchronous merge protocol with a
// latest-request-wins debounce per entity.
type Service struct {
	store    story.Store
	provider llm.Provider
	opts     Options
	tok      *tokenizer.Tokenizer // optional, telemetry only

	mu       sync.Mutex
	inflight map[string]*refreshHandle

	events chan<- *types.RefreshEvent
}

type refreshHandle struct {
	cancel context.CancelFunc
}

// NewService creates a rolling-memory service. provider is the generate
// capability; opts fields left zero fall back to defaults.
func NewService(store story.Store, provider llm.Provider, opts Options) *Service {
	s := &Service{
		store:    store,
		provider: provider,
		opts:     opts.sanitize(),
		inflight: make(map[string]*refreshHandle),
	}
	if tok, err := tokenizer.New(); err == nil {
		s.tok = tok
	} else {
		debugLog.Warnf("tokenizer unavailable, skipping token telemetry: %v", err)
	}
	return s
}

// SetEventChannel sets the channel refresh progress events are emitted on.
// A nil channel (the default) disables emission.
func (s *Service) SetEventChannel(events chan<- *types.RefreshEvent) {
	s.events = events
}

func (s *Service) emit(ev *types.RefreshEvent) {
	if s.events != nil {
		s.events <- ev
	}
}

// SceneMemory returns the valid rolling summary for a scene, or "" when the
// record is absent or its staleness key no longer matches the scene content.
func (s *Service) SceneMemory(id types.SceneID) string {
	scene, ok := s.store.Scene(id)
	if !ok {
		return ""
	}
	rec, ok := s.store.RollingMemory(SceneOwner(id))
	if !ok || rec.StalenessKey != HashContent(scene.Content) {
		return ""
	}
	return rec.Summary
}

// ChapterMemory returns the valid rolling summary for a chapter, or "" when
// any scene in the chapter was edited, reordered, inserted, or deleted since
// the record was written.
func (s *Service) ChapterMemory(id types.ChapterID) string {
	chapter, ok := s.store.Chapter(id)
	if !ok {
		return ""
	}
	rec, ok := s.store.RollingMemory(ChapterOwner(id))
	if !ok || rec.StalenessKey != ChapterFingerprint(s.chapterScenes(chapter)) {
		return ""
	}
	return rec.Summary
}

// WorkshopMemory returns the rolling summary for a workshop session.
// Workshop memory is never invalid, only behind, so whatever is stored is
// always usable.
func (s *Service) WorkshopMemory(id types.SessionID) string {
	rec, ok := s.store.RollingMemory(WorkshopOwner(id))
	if !ok {
		return ""
	}
	return rec.Summary
}

// WorkshopPendingDelta returns how many non-empty messages have accumulated
// past the stored watermark.
func (s *Service) WorkshopPendingDelta(id types.SessionID) int {
	session, ok := s.store.Session(id)
	if !ok {
		return 0
	}
	watermark := 0
	if rec, ok := s.store.RollingMemory(WorkshopOwner(id)); ok {
		watermark = ParseWatermark(rec.StalenessKey)
	}
	delta := session.NonEmptyMessageCount() - watermark
	if delta < 0 {
		return 0
	}
	return delta
}

// RefreshScene re-summarizes a scene's rolling memory from its current text.
// A refresh already in flight for the same scene is cancelled first.
func (s *Service) RefreshScene(ctx context.Context, id types.SceneID) (string, error) {
	scene, ok := s.store.Scene(id)
	if !ok {
		return "", fmt.Errorf("memory: scene %s: %w", id, story.ErrNotFound)
	}

	owner := SceneOwner(id)
	ctx, handle, finish := s.begin(ctx, owner)
	defer finish()
	s.emit(types.NewRefreshStartEvent(owner, 0))

	existing := s.SceneMemory(id)
	source := prompts.CapText(scene.Content, s.opts.SceneSourceChars)

	summary, err := s.merge(ctx, existing, source, s.opts.SceneSummaryChars)
	if err != nil {
		return "", s.fail(owner, err)
	}

	// Re-validate against the scene as it is NOW, not as captured at call
	// start: a concurrent edit must not leave the summary stamped with
	// provenance that no longer matches reality.
	current, ok := s.store.Scene(id)
	if !ok {
		return "", s.fail(owner, fmt.Errorf("memory: scene %s deleted during refresh: %w", id, story.ErrNotFound))
	}
	rec := story.RollingRecord{
		Summary:      summary,
		StalenessKey: HashContent(current.Content),
		UpdatedAt:    time.Now(),
	}
	if err := s.commit(owner, handle, rec); err != nil {
		return "", s.fail(owner, err)
	}
	s.emit(types.NewRefreshCompleteEvent(owner, summary))
	return summary, nil
}

// RefreshChapter re-summarizes a chapter's rolling memory from the raw text
// of its scenes, folding scene-ordered chunks into the summary one call at a
// time. Each intermediate summary is emitted as a progress event.
func (s *Service) RefreshChapter(ctx context.Context, id types.ChapterID) (string, error) {
	chapter, ok := s.store.Chapter(id)
	if !ok {
		return "", fmt.Errorf("memory: chapter %s: %w", id, story.ErrNotFound)
	}

	owner := ChapterOwner(id)
	ctx, handle, finish := s.begin(ctx, owner)
	defer finish()

	chunks := s.chapterChunks(chapter)
	s.emit(types.NewRefreshStartEvent(owner, len(chunks)))

	summary := s.ChapterMemory(id)
	for i, chunk := range chunks {
		merged, err := s.merge(ctx, summary, chunk, s.opts.ChapterSummaryChars)
		if err != nil {
			return "", s.fail(owner, err)
		}
		summary = merged
		s.emit(types.NewRefreshProgressEvent(owner, summary, i+1, len(chunks)))
	}
	if strings.TrimSpace(summary) == "" {
		return "", s.fail(owner, ErrEmptySummary)
	}

	current, ok := s.store.Chapter(id)
	if !ok {
		return "", s.fail(owner, fmt.Errorf("memory: chapter %s deleted during refresh: %w", id, story.ErrNotFound))
	}
	rec := story.RollingRecord{
		Summary:      summary,
		StalenessKey: ChapterFingerprint(s.chapterScenes(current)),
		UpdatedAt:    time.Now(),
	}
	if err := s.commit(owner, handle, rec); err != nil {
		return "", s.fail(owner, err)
	}
	s.emit(types.NewRefreshCompleteEvent(owner, summary))
	return summary, nil
}

// RefreshWorkshop folds new workshop messages into the session's rolling
// summary. When fewer than MinDeltaMessages non-empty messages are pending,
// no call is made and the current summary is returned unchanged.
func (s *Service) RefreshWorkshop(ctx context.Context, id types.SessionID) (string, error) {
	session, ok := s.store.Session(id)
	if !ok {
		return "", fmt.Errorf("memory: session %s: %w", id, story.ErrNotFound)
	}

	owner := WorkshopOwner(id)
	existing := s.WorkshopMemory(id)
	if s.WorkshopPendingDelta(id) < s.opts.MinDeltaMessages {
		debugLog.Debugf("workshop %s below delta threshold, skipping refresh", id)
		return existing, nil
	}

	ctx, handle, finish := s.begin(ctx, owner)
	defer finish()
	s.emit(types.NewRefreshStartEvent(owner, 0))

	source := formatTranscript(recentMessages(session.Messages, s.opts.DeltaWindow))
	summary, err := s.merge(ctx, existing, source, s.opts.WorkshopSummaryChars)
	if err != nil {
		return "", s.fail(owner, err)
	}

	// The watermark is recomputed from the session as stored now, so
	// messages that arrived mid-flight count as still pending.
	current, ok := s.store.Session(id)
	if !ok {
		return "", s.fail(owner, fmt.Errorf("memory: session %s deleted during refresh: %w", id, story.ErrNotFound))
	}
	rec := story.RollingRecord{
		Summary:      summary,
		StalenessKey: WatermarkKey(current.NonEmptyMessageCount()),
		UpdatedAt:    time.Now(),
	}
	if err := s.commit(owner, handle, rec); err != nil {
		return "", s.fail(owner, err)
	}
	s.emit(types.NewRefreshCompleteEvent(owner, summary))
	return summary, nil
}

// begin registers a refresh for owner, cancelling any refresh already in
// flight for the same owner (latest request wins). The returned finish func
// must be deferred; it deregisters the handle if it is still the active one.
func (s *Service) begin(parent context.Context, owner string) (context.Context, *refreshHandle, func()) {
	ctx, cancel := context.WithCancel(parent)
	handle := &refreshHandle{cancel: cancel}

	s.mu.Lock()
	if prev, ok := s.inflight[owner]; ok {
		debugLog.Debugf("superseding in-flight refresh for %s", owner)
		prev.cancel()
	}
	s.inflight[owner] = handle
	s.mu.Unlock()

	finish := func() {
		s.mu.Lock()
		if s.inflight[owner] == handle {
			delete(s.inflight, owner)
		}
		s.mu.Unlock()
		cancel()
	}
	return ctx, handle, finish
}

// commit persists the record, but only if the calling refresh is still the
// active one for its owner; a superseded refresh completing late must not
// overwrite its successor's work.
func (s *Service) commit(owner string, handle *refreshHandle, rec story.RollingRecord) error {
	s.mu.Lock()
	active := s.inflight[owner] == handle
	s.mu.Unlock()
	if !active {
		return ErrRefreshCancelled
	}
	if err := s.store.SaveRollingMemory(owner, rec); err != nil {
		return fmt.Errorf("memory: persist %s: %w", owner, err)
	}
	debugLog.Infof("committed rolling memory for %s (%d chars)", owner, len(rec.Summary))
	return nil
}

// fail maps and reports a refresh failure. Cancellation is returned as
// ErrRefreshCancelled and not logged as an error; everything else is an
// operational failure that leaves the stored record untouched.
func (s *Service) fail(owner string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, ErrRefreshCancelled) {
		debugLog.Debugf("refresh for %s cancelled", owner)
		return ErrRefreshCancelled
	}
	debugLog.Errorf("refresh for %s failed: %v", owner, err)
	s.emit(types.NewRefreshErrorEvent(owner, err))
	return err
}

// merge performs one generate call of the merge protocol and normalizes the
// result to the given output budget.
func (s *Service) merge(ctx context.Context, existing, source string, outputBudget int) (string, error) {
	user := prompts.BuildMergePrompt(existing, source)
	if s.tok != nil {
		debugLog.Debugf("merge prompt: ~%d tokens", s.tok.CountTokens(user))
	}

	out, err := llm.Generate(ctx, s.provider, prompts.MemoryMergeSystemPrompt, user)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return "", ErrRefreshCancelled
		}
		return "", fmt.Errorf("memory: generate: %w", err)
	}

	summary := NormalizeSummary(out, outputBudget)
	if summary == "" {
		return "", ErrEmptySummary
	}
	return summary, nil
}

var excessNewlinesRegex = regexp.MustCompile(`\n{3,}`)

// NormalizeSummary trims the generated text, collapses runs of three or more
// newlines to two, and hard-truncates to the output budget.
func NormalizeSummary(s string, budget int) string {
	s = strings.TrimSpace(s)
	s = excessNewlinesRegex.ReplaceAllString(s, "\n\n")
	return prompts.CapText(s, budget)
}

// chapterScenes returns the chapter's live scenes in chapter order.
func (s *Service) chapterScenes(chapter *types.Chapter) []*types.Scene {
	scenes := make([]*types.Scene, 0, len(chapter.SceneIDs))
	for _, id := range chapter.SceneIDs {
		if scene, ok := s.store.Scene(id); ok {
			scenes = append(scenes, scene)
		}
	}
	return scenes
}

// chapterChunks splits a chapter's raw scene text into scene-ordered
// segments, each capped at the per-chunk budget, with the total capped at
// the chapter source budget.
func (s *Service) chapterChunks(chapter *types.Chapter) []string {
	var chunks []string
	remaining := s.opts.ChapterSourceChars

	for _, scene := range s.chapterScenes(chapter) {
		if remaining <= 0 {
			break
		}
		text := scene.Content
		if scene.Title != "" {
			text = scene.Title + "\n\n" + text
		}
		text = prompts.CapText(text, remaining)
		remaining -= len([]rune(text))

		for len(text) > 0 {
			chunk := prompts.CapText(text, s.opts.ChapterChunkChars)
			if strings.TrimSpace(chunk) != "" {
				chunks = append(chunks, chunk)
			}
			if len(chunk) >= len(text) {
				break
			}
			text = text[len(chunk):]
		}
	}
	return chunks
}

// recentMessages returns the trailing window of non-empty messages.
func recentMessages(messages []*types.Message, window int) []*types.Message {
	var nonEmpty []*types.Message
	for _, m := range messages {
		if m != nil && strings.TrimSpace(m.Content) != "" {
			nonEmpty = append(nonEmpty, m)
		}
	}
	if len(nonEmpty) > window {
		nonEmpty = nonEmpty[len(nonEmpty)-window:]
	}
	return nonEmpty
}

// formatTranscript renders messages as "Role: content" lines separated by
// blank lines, the same shape the renderer's chat_history function uses.
func formatTranscript(messages []*types.Message) string {
	parts := make([]string, 0, len(messages))
	for _, m := range messages {
		parts = append(parts, m.DisplayRole()+": "+m.Content)
	}
	return strings.Join(parts, "\n\n")
}
