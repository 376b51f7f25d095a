package model

import "unicode/utf8"

// charsPerToken is the rough ratio used to budget context without a tokenizer.
const charsPerToken = 4

// ContextWindow bounds how much history is resent with each request.
// Zero values mean unlimited.
type ContextWindow struct {
	MaxMessages int
	MaxTokens   int
}

// Unbounded reports whether the window keeps every message.
func (w ContextWindow) Unbounded() bool {
	return w.MaxMessages <= 0 && w.MaxTokens <= 0
}

// EstimateTokens approximates the token count of content, never less than 1.
func EstimateTokens(content string) int {
	n := (utf8.RuneCountInString(content) + charsPerToken - 1) / charsPerToken
	if n < 1 {
		return 1
	}
	return n
}

// Apply returns a copy of the newest messages that fit the window. The newest
// message is always kept, and the result never starts with an assistant
// message unless that is the only message left.
func (w ContextWindow) Apply(messages []Message) []Message {
	if len(messages) == 0 {
		return []Message{}
	}

	last := len(messages) - 1
	start := 0

	if w.MaxMessages > 0 && len(messages) > w.MaxMessages {
		start = len(messages) - w.MaxMessages
	}

	if w.MaxTokens > 0 {
		total := 0
		for i := last; i >= start; i-- {
			total += EstimateTokens(messages[i].Content)
			if total > w.MaxTokens && i < last {
				start = i + 1
				break
			}
		}
	}

	for start < last && messages[start].Role == RoleAssistant {
		start++
	}

	out := make([]Message, len(messages)-start)
	copy(out, messages[start:])
	return out
}
