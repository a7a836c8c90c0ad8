package triage

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lvyanru/triagectl/internal/cli/types"
)

// Conversation is an append-only message log. It lives in memory only and
// is dropped on Clear.
type Conversation struct {
	mu       sync.RWMutex
	id       string
	messages []types.ChatMessage
	now      func() time.Time
}

// NewConversation creates an empty conversation with a fresh ID
func NewConversation() *Conversation {
	return &Conversation{id: uuid.NewString(), now: time.Now}
}

// ID identifies the conversation in logs
func (c *Conversation) ID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.id
}

// Add appends a message from sender
func (c *Conversation) Add(sender types.Sender, text string) types.ChatMessage {
	msg := types.ChatMessage{Sender: sender, Text: text, Timestamp: c.now()}
	c.Append(msg)
	return msg
}

// Append appends msg as is
func (c *Conversation) Append(msg types.ChatMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if msg.Timestamp.IsZero() {
		msg.Timestamp = c.now()
	}
	c.messages = append(c.messages, msg)
}

// ShowTyping appends a transient typing indicator for sender
func (c *Conversation) ShowTyping(sender types.Sender) {
	c.Append(types.ChatMessage{Sender: sender, Typing: true})
}

// HideTyping drops every typing indicator
func (c *Conversation) HideTyping() {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.messages[:0]
	for _, m := range c.messages {
		if !m.Typing {
			kept = append(kept, m)
		}
	}
	c.messages = kept
}

// IsTyping reports whether a typing indicator is shown
func (c *Conversation) IsTyping() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, m := range c.messages {
		if m.Typing {
			return true
		}
	}
	return false
}

// Messages returns a copy of the log
func (c *Conversation) Messages() []types.ChatMessage {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]types.ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of messages, typing indicators included
func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.messages)
}

// Clear empties the log and starts a new conversation ID
func (c *Conversation) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = nil
	c.id = uuid.NewString()
}
