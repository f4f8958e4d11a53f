package api

import (
	"encoding/json"
	"fmt"

	"github.com/rmarques/wildchat/internal/config"
	"github.com/rmarques/wildchat/internal/models"
)

// chatRequest is the OpenAI-compatible chat-completions request body.
type chatRequest struct {
	Model       string           `json:"model"`
	Messages    []models.Message `json:"messages"`
	Temperature float64          `json:"temperature,omitempty"`
	TopP        float64          `json:"top_p,omitempty"`
	MaxTokens   int              `json:"max_tokens,omitempty"`
	Stream      bool             `json:"stream"`
}

// buildChatPayload serializes the request body for a chat-completions call.
func buildChatPayload(model models.Model, messages []models.Message, gen config.GenerationConfig, stream bool) ([]byte, error) {
	if model.Name == "" {
		return nil, fmt.Errorf("model id cannot be empty")
	}
	if len(messages) == 0 {
		return nil, fmt.Errorf("message list cannot be empty")
	}

	req := chatRequest{
		Model:       model.Name,
		Messages:    messages,
		Temperature: gen.Temperature,
		TopP:        gen.TopP,
		MaxTokens:   gen.MaxTokens,
		Stream:      stream,
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return payload, nil
}

// buildMessages assembles the wire message list: the personality's system
// prompt (when present) followed by the transcript snapshot in chat order.
func buildMessages(systemPrompt string, transcript []models.Message) []models.Message {
	msgs := make([]models.Message, 0, len(transcript)+1)
	if systemPrompt != "" {
		msgs = append(msgs, models.Message{Role: models.RoleSystem, Content: systemPrompt})
	}
	return append(msgs, transcript...)
}
