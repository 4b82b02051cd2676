package types

import (
	"encoding/json"
	"time"
)

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// ChatMessage is one entry of a conversation. Messages are append-only.
type ChatMessage struct {
	ID        string      `json:"id"`
	Role      MessageRole `json:"role"`
	Text      string      `json:"text"`
	Timestamp time.Time   `json:"timestamp"`
}

// MarshalJSON writes the timestamp in UTC. The in-memory value keeps its monotonic reading.
func (m ChatMessage) MarshalJSON() ([]byte, error) {
	type message ChatMessage
	out := message(m)
	out.Timestamp = m.Timestamp.UTC()
	return json.Marshal(out)
}

// ChatSnapshot is an immutable copy of a chat session's observable state.
type ChatSnapshot struct {
	ID        string        `json:"id"`
	Language  Language      `json:"language"`
	Messages  []ChatMessage `json:"messages"`
	Composing bool          `json:"composing"`
}
