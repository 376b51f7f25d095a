package ollama

import (
	"github.com/ollama/ollama/api"

	"ochat/model"
)

// ConvertToOllamaMessages maps model messages onto the Ollama wire type.
// Timestamps stay on our side; the API has no field for them.
func ConvertToOllamaMessages(messages []model.Message) []api.Message {
	result := make([]api.Message, len(messages))
	for i, msg := range messages {
		result[i] = api.Message{
			Role:    string(msg.Role),
			Content: msg.Content,
		}
	}
	return result
}
