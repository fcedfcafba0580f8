package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

const chatTitleRunes = 50

type ChatSession struct {
	Id        uuid.UUID
	UserId    string
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ChatMessage struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	Role          ChatRole
	Content       string
	CreatedAt     time.Time
}

// ChatTitle names a session after its first question, cut to 50 characters.
func ChatTitle(firstMessage string) string {
	r := []rune(firstMessage)
	if len(r) <= chatTitleRunes {
		return firstMessage
	}
	return string(r[:chatTitleRunes]) + "..."
}
