// Package llm provides the abstraction over text-generation providers.
//
// The rolling-memory merge protocol and the workshop chat both consume this
// interface; provider-specific retry and timeout behavior lives entirely in
// the implementations.
package llm

import (
	"context"

	"github.com/quillhq/quill/pkg/types"
)

// Provider defines the interface for LLM integrations.
//
// Providers handle API communication with LLM services and return simple
// StreamChunk instances. This keeps providers focused on transport concerns:
// callers own prompt assembly and result handling, so providers stay reusable
// and testable on their own.
type Provider interface {
	// StreamCompletion sends messages to the LLM and streams back response
	// chunks. The channel is closed when streaming completes or an error
	// occurs; stream-time errors are sent as chunks with Error set. An
	// error is returned only if streaming cannot be initiated.
	StreamCompletion(ctx context.Context, messages []*types.Message) (<-chan *StreamChunk, error)

	// Complete sends messages to the LLM and returns the full response.
	// It is a convenience wrapper around StreamCompletion that accumulates
	// all chunks into a single message.
	Complete(ctx context.Context, messages []*types.Message) (*types.Message, error)

	// GetModel returns the model name being used.
	GetModel() string

	// GetBaseURL returns the base URL being used for API requests.
	GetBaseURL() string
}

// Generate is the minimal shape the rolling-memory cache needs: one system
// instruction, one user prompt, one text result. It adapts a Provider call
// into the merge protocol's generate capability.
func Generate(ctx context.Context, provider Provider, system, user string) (string, error) {
	msg, err := provider.Complete(ctx, []*types.Message{
		types.NewSystemMessage(system),
		types.NewUserMessage(user),
	})
	if err != nil {
		return "", err
	}
	return msg.Content, nil
}
