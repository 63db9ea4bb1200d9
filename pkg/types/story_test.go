package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNonEmptyMessageCount(t *testing.T) {
	session := &WorkshopSession{
		Messages: []*Message{
			NewUserMessage("hello"),
			NewAssistantMessage(""),
			NewUserMessage("   \n\t"),
			nil,
			NewAssistantMessage("reply"),
		},
	}
	assert.Equal(t, 2, session.NonEmptyMessageCount())
	assert.Equal(t, 0, (&WorkshopSession{}).NonEmptyMessageCount())
}

func TestDisplayRole(t *testing.T) {
	assert.Equal(t, "User", NewUserMessage("x").DisplayRole())
	assert.Equal(t, "Assistant", NewAssistantMessage("x").DisplayRole())
	assert.Equal(t, "System", NewSystemMessage("x").DisplayRole())
}
