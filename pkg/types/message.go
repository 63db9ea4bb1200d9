package types

// MessageRole identifies the author of a chat message.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Message is a single chat message exchanged with an LLM provider or stored
// in a workshop session.
type Message struct {
	// Metadata holds optional additional information about the message.
	Metadata map[string]interface{}

	// Content is the text content of the message.
	Content string

	// Role identifies who authored the message.
	Role MessageRole
}

// NewSystemMessage creates a new system message.
func NewSystemMessage(content string) *Message {
	return &Message{Role: RoleSystem, Content: content}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) *Message {
	return &Message{Role: RoleUser, Content: content}
}

// NewAssistantMessage creates a new assistant message.
func NewAssistantMessage(content string) *Message {
	return &Message{Role: RoleAssistant, Content: content}
}

// WithMetadata adds a metadata entry and returns the message for chaining.
func (m *Message) WithMetadata(key string, value interface{}) *Message {
	if m.Metadata == nil {
		m.Metadata = make(map[string]interface{})
	}
	m.Metadata[key] = value
	return m
}

// DisplayRole returns the role with an uppercase first letter, suitable for
// formatting conversation transcripts ("User: ...", "Assistant: ...").
func (m *Message) DisplayRole() string {
	r := string(m.Role)
	if r == "" {
		return r
	}
	if r[0] >= 'a' && r[0] <= 'z' {
		return string(r[0]-'a'+'A') + r[1:]
	}
	return r
}
