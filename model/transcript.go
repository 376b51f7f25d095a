package model

import (
	"errors"
	"fmt"
)

var (
	ErrRoleOrder   = errors.New("assistant message must follow a user message")
	ErrInvalidRole = errors.New("invalid message role")
)

// Transcript is the ordered, append-only conversation held for one session.
//
// An assistant message may only follow a user message. Consecutive user
// messages are allowed: a turn that fails keeps its user message and the
// next prompt is appended right after it.
type Transcript struct {
	messages []Message
}

func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append validates msg against the role rules and adds it to the end.
func (t *Transcript) Append(msg Message) error {
	switch msg.Role {
	case RoleUser:
	case RoleAssistant:
		last, ok := t.Last()
		if !ok || last.Role != RoleUser {
			return ErrRoleOrder
		}
	default:
		return fmt.Errorf("%w: %q cannot be stored", ErrInvalidRole, msg.Role)
	}

	t.messages = append(t.messages, msg)
	return nil
}

// AppendUser records operator input. It cannot fail.
func (t *Transcript) AppendUser(content string) Message {
	msg := NewUserMessage(content)
	t.messages = append(t.messages, msg)
	return msg
}

func (t *Transcript) Len() int {
	return len(t.messages)
}

func (t *Transcript) Last() (Message, bool) {
	if len(t.messages) == 0 {
		return Message{}, false
	}
	return t.messages[len(t.messages)-1], true
}

// Messages returns a copy so callers cannot rewrite history.
func (t *Transcript) Messages() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Window returns the slice of history that fits w.
func (t *Transcript) Window(w ContextWindow) []Message {
	if w.Unbounded() {
		return t.Messages()
	}
	return w.Apply(t.messages)
}
