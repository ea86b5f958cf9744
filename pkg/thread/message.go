// Package thread holds the conversation data: messages with roles and
// visibility, and the thread mutations the chat surface performs around
// each turn. The orchestration engine only reads this data; it never
// persists anything itself.
package thread

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies who (or what) produced a message.
type Role string

const (
	// RoleSystem is the hidden instruction message at the head of every
	// thread; it is part of model context but never rendered.
	RoleSystem Role = "system"
	RoleUser   Role = "user"
	RoleModel  Role = "model"
	// RoleThinking is the transient placeholder shown while tool calls are
	// in flight. It is never persisted as a final message and must be
	// removed before the turn's final or error message is appended.
	RoleThinking Role = "agent-thinking"
	RoleError    Role = "error"
)

// Message is one entry in a thread. Hidden messages are included in
// model context but never rendered.
type Message struct {
	ID          string    `json:"id"`
	Role        Role      `json:"role"`
	Text        string    `json:"text"`
	Timestamp   time.Time `json:"timestamp"`
	Hidden      bool      `json:"hidden,omitempty"`
	CharacterID string    `json:"characterId,omitempty"`
}

// NewMessage builds a message with a fresh id and the current time.
func NewMessage(role Role, text string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		Timestamp: time.Now(),
	}
}

// Thread is one conversation: created once, mutated by appending and
// replacing messages each turn, deleted explicitly by the user.
type Thread struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	CharacterID string    `json:"characterId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Messages    []Message `json:"messages"`
}

// New creates a thread whose first two messages are the hidden system
// instruction and the persona greeting. The greeting stays hidden when
// hiddenGreeting is set; it is still part of model context either way.
func New(name, characterID, systemInstruction, greeting string, hiddenGreeting bool) *Thread {
	now := time.Now()
	t := &Thread{
		ID:          uuid.NewString(),
		Name:        name,
		CharacterID: characterID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	system := NewMessage(RoleSystem, systemInstruction)
	system.Hidden = true
	system.CharacterID = characterID
	t.Messages = append(t.Messages, system)

	if greeting != "" {
		g := NewMessage(RoleModel, greeting)
		g.Hidden = hiddenGreeting
		g.CharacterID = characterID
		t.Messages = append(t.Messages, g)
	}

	return t
}

// Append adds a message and bumps the update time.
func (t *Thread) Append(msg Message) {
	t.Messages = append(t.Messages, msg)
	t.UpdatedAt = time.Now()
}

// AppendThinking adds the transient placeholder and returns its id.
func (t *Thread) AppendThinking(text string) string {
	msg := NewMessage(RoleThinking, text)
	t.Append(msg)
	return msg.ID
}

// RemoveThinking deletes every agent-thinking message. It is safe to
// call when none exist; the turn runner calls it unconditionally on both
// the success and failure paths.
func (t *Thread) RemoveThinking() {
	kept := t.Messages[:0]
	for _, msg := range t.Messages {
		if msg.Role != RoleThinking {
			kept = append(kept, msg)
		}
	}
	t.Messages = kept
}

// SystemInstruction returns the text of the thread's hidden system
// message, or "" when the thread has none.
func (t *Thread) SystemInstruction() string {
	for _, msg := range t.Messages {
		if msg.Role == RoleSystem {
			return msg.Text
		}
	}
	return ""
}

// RefreshSystemInstruction replaces the hidden system message text when
// the composed instruction changed (tool or model settings edits make
// the stored one stale). Reports whether a replacement happened.
func (t *Thread) RefreshSystemInstruction(instruction string) bool {
	for i, msg := range t.Messages {
		if msg.Role == RoleSystem {
			if msg.Text == instruction {
				return false
			}
			t.Messages[i].Text = instruction
			t.Messages[i].Timestamp = time.Now()
			t.UpdatedAt = time.Now()
			return true
		}
	}

	// No system message yet; install one at the head.
	system := NewMessage(RoleSystem, instruction)
	system.Hidden = true
	system.CharacterID = t.CharacterID
	t.Messages = append([]Message{system}, t.Messages...)
	t.UpdatedAt = time.Now()
	return true
}

// History returns the messages the model should see as conversation
// context: user and model messages, hidden ones included. The system
// instruction travels separately and transient/error entries carry no
// conversational content.
func (t *Thread) History() []Message {
	out := make([]Message, 0, len(t.Messages))
	for _, msg := range t.Messages {
		if msg.Role == RoleUser || msg.Role == RoleModel {
			out = append(out, msg)
		}
	}
	return out
}

// Visible returns the messages a chat surface should render: everything
// not hidden and not the system instruction.
func (t *Thread) Visible() []Message {
	out := make([]Message, 0, len(t.Messages))
	for _, msg := range t.Messages {
		if msg.Hidden || msg.Role == RoleSystem {
			continue
		}
		out = append(out, msg)
	}
	return out
}
