package model

import "context"

// Provider sends a conversation to a model server and returns its reply.
//
// Defined here rather than next to the implementation so the session loop
// can depend on it without importing the HTTP client.
type Provider interface {
	// Chat performs one blocking, non-streaming exchange. The returned
	// message is already normalized for display and storage.
	Chat(ctx context.Context, messages []Message) (Message, error)

	// GetModel returns the model name sent with each request.
	GetModel() string
}
