// Package tokenizer wraps tiktoken for token counting. Counts are estimates
// used for logging and budget telemetry, not hard enforcement; the merge
// protocol's caps are character based.
package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/quillhq/quill/pkg/types"
)

// encodingName is the cl100k_base encoding used by recent OpenAI chat models.
// Close enough for telemetry on compatible providers too.
const encodingName = "cl100k_base"

// Tokenizer counts tokens in text and message lists.
type Tokenizer struct {
	encoding *tiktoken.Tiktoken
}

// New creates a tokenizer with the cl100k_base encoding.
func New() (*Tokenizer, error) {
	enc, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("tokenizer: get encoding %s: %w", encodingName, err)
	}
	return &Tokenizer{encoding: enc}, nil
}

// CountTokens returns the token count of a single text.
func (t *Tokenizer) CountTokens(text string) int {
	if text == "" {
		return 0
	}
	return len(t.encoding.Encode(text, nil, nil))
}

// CountMessagesTokens returns the approximate token count of a message list,
// including a small per-message overhead for role framing.
func (t *Tokenizer) CountMessagesTokens(messages []*types.Message) int {
	const perMessageOverhead = 4
	total := 0
	for _, msg := range messages {
		if msg == nil {
			continue
		}
		total += t.CountTokens(msg.Content) + perMessageOverhead
	}
	return total
}
