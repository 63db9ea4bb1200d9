package llm

// StreamChunk is one increment of a streaming completion.
type StreamChunk struct {
	// Error is set on stream-time failures; other fields are empty then.
	Error error

	// Content is the text delta carried by this chunk.
	Content string

	// Role is set on the first chunk of a response (e.g. "assistant").
	Role string

	// Finished marks the final chunk of a completed stream.
	Finished bool
}

// IsError returns true if this chunk carries an error.
func (c *StreamChunk) IsError() bool {
	return c.Error != nil
}
