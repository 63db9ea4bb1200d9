package types

// RefreshEventType defines the type of event emitted by a rolling-memory
// refresh operation.
type RefreshEventType string

const (
	EventTypeRefreshStart    RefreshEventType = "refresh_start"    // EventTypeRefreshStart indicates a memory refresh has started.
	EventTypeRefreshProgress RefreshEventType = "refresh_progress" // EventTypeRefreshProgress carries an intermediate summary during a chunked refresh.
	EventTypeRefreshComplete RefreshEventType = "refresh_complete" // EventTypeRefreshComplete indicates a memory refresh committed successfully.
	EventTypeRefreshError    RefreshEventType = "refresh_error"    // EventTypeRefreshError indicates a memory refresh failed.
)

// RefreshEvent is emitted by the rolling-memory service while a refresh is in
// flight, so a UI can show progress without coupling to the service internals.
type RefreshEvent struct {
	// Error contains error information for refresh_error events.
	Error error

	// Summary holds the latest summary text: intermediate for progress
	// events, final for complete events.
	Summary string

	// Owner identifies the entity being refreshed ("scene:<id>",
	// "chapter:<id>" or "workshop:<id>").
	Owner string

	// Chunk and ChunkCount report position during a chunked chapter
	// refresh; both are zero for single-call refreshes.
	Chunk      int
	ChunkCount int

	// Type indicates the kind of event.
	Type RefreshEventType
}

// NewRefreshStartEvent creates a refresh start event.
func NewRefreshStartEvent(owner string, chunkCount int) *RefreshEvent {
	return &RefreshEvent{Type: EventTypeRefreshStart, Owner: owner, ChunkCount: chunkCount}
}

// NewRefreshProgressEvent creates a progress event carrying an intermediate summary.
func NewRefreshProgressEvent(owner, summary string, chunk, chunkCount int) *RefreshEvent {
	return &RefreshEvent{
		Type:       EventTypeRefreshProgress,
		Owner:      owner,
		Summary:    summary,
		Chunk:      chunk,
		ChunkCount: chunkCount,
	}
}

// NewRefreshCompleteEvent creates a refresh complete event with the final summary.
func NewRefreshCompleteEvent(owner, summary string) *RefreshEvent {
	return &RefreshEvent{Type: EventTypeRefreshComplete, Owner: owner, Summary: summary}
}

// NewRefreshErrorEvent creates a refresh error event.
func NewRefreshErrorEvent(owner string, err error) *RefreshEvent {
	return &RefreshEvent{Type: EventTypeRefreshError, Owner: owner, Error: err}
}
