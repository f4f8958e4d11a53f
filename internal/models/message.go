// Package models contains data types and constants for the chat client.
package models

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single chat message. Messages are immutable once appended to
// a conversation. JSON tags match the OpenAI-compatible wire format.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Conversation is the ordered, append-only message history of a session.
// Only the UI loop appends to it; workers operate on snapshots.
type Conversation struct {
	messages []Message
}

// NewConversation creates an empty conversation.
func NewConversation() *Conversation {
	return &Conversation{}
}

// Append adds a message to the end of the history.
func (c *Conversation) Append(role Role, content string) {
	c.messages = append(c.messages, Message{Role: role, Content: content})
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	return len(c.messages)
}

// Snapshot returns a copy of the history. The worker receives this copy so
// the UI can keep appending without racing an in-flight request.
func (c *Conversation) Snapshot() []Message {
	snap := make([]Message, len(c.messages))
	copy(snap, c.messages)
	return snap
}

// Last returns the most recent message, or a zero Message if empty.
func (c *Conversation) Last() (Message, bool) {
	if len(c.messages) == 0 {
		return Message{}, false
	}
	return c.messages[len(c.messages)-1], true
}

// Clear discards the history.
func (c *Conversation) Clear() {
	c.messages = nil
}
