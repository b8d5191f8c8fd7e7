package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// ChatRole identifies the author of a chat message.
type ChatRole string

const (
	ChatRoleUser ChatRole = "user"
	ChatRoleAI   ChatRole = "AI"
)

// ChatRoom is an audited conversation.
type ChatRoom struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	LastActivity time.Time `json:"lastActivity"`
	MessageCount int       `json:"messageCount"`
	UserID       string    `json:"userId"`
	Type         string    `json:"type"`
}

// RecordID returns the room id.
func (r ChatRoom) RecordID() string { return r.ID }

// ChatParticipant is the owner of chat rooms in the audit view.
type ChatParticipant struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
	Role   Role   `json:"role"`
}

// ChatMessage is one stored message. Content holds a JSON encoded MessageContent.
type ChatMessage struct {
	ChatID    string    `json:"chatId"`
	MessageID string    `json:"messageId"`
	Role      ChatRole  `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// MessageContent is the decoded body of a chat message.
type MessageContent struct {
	Type    string          `json:"type"`
	Content json.RawMessage `json:"content"`
}

// ParseContent decodes Content. Anything that is not a typed JSON object is
// returned as plain text.
func (m ChatMessage) ParseContent() MessageContent {
	var mc MessageContent
	trimmed := strings.TrimSpace(m.Content)
	if err := json.Unmarshal([]byte(trimmed), &mc); err != nil || mc.Type == "" || len(mc.Content) == 0 {
		raw, _ := json.Marshal(m.Content)
		return MessageContent{Type: "text", Content: raw}
	}
	return mc
}

// Text returns the content as a display string.
func (mc MessageContent) Text() string {
	var s string
	if err := json.Unmarshal(mc.Content, &s); err == nil {
		return s
	}
	return string(mc.Content)
}
