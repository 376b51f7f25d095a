package model

import "time"

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// NoResponse is shown and stored when the server reply carries no content.
const NoResponse = "No response"

// Message represents a chat message in the conversation
type Message struct {
	Role      Role
	Content   string
	Timestamp time.Time
}

func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content, Timestamp: time.Now()}
}

func NewAssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content, Timestamp: time.Now()}
}

// NewSystemMessage builds the configured system prompt. System messages are
// prepended at request time and never stored in a Transcript.
func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content, Timestamp: time.Now()}
}

// NormalizeReply turns the content of a server reply into the canonical
// assistant message used for both display and storage. A nil content means
// the field (or the whole message object) was absent on the wire. The role
// sent by the server is not trusted: replies are always assistant turns.
func NormalizeReply(content *string) Message {
	if content == nil {
		return NewAssistantMessage(NoResponse)
	}
	return NewAssistantMessage(*content)
}
