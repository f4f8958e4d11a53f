package api

import (
	"context"
	"strings"

	"github.com/rmarques/wildchat/internal/config"
	apierrors "github.com/rmarques/wildchat/internal/errors"
	"github.com/rmarques/wildchat/internal/models"
)

// ChatSession binds a personality and model selection to a client. The
// conversation itself is owned by the caller (the UI loop); the session only
// ever sees read-only transcript snapshots, one per request.
type ChatSession struct {
	client      *Client
	personality *config.Personality
	model       models.Model
}

// StreamTranscript starts one streaming request for the given transcript
// snapshot. The personality's system prompt, when set, is prepended to the
// wire messages; the snapshot itself is never mutated.
func (s *ChatSession) StreamTranscript(ctx context.Context, transcript []models.Message) (<-chan models.StreamEvent, error) {
	if len(transcript) == 0 {
		return nil, apierrors.ErrEmptyPrompt
	}
	if last := transcript[len(transcript)-1]; strings.TrimSpace(last.Content) == "" {
		return nil, apierrors.ErrEmptyPrompt
	}

	gen := s.client.generation
	if s.personality != nil && s.personality.Temperature > 0 {
		gen.Temperature = s.personality.Temperature
	}

	return s.client.streamWithGeneration(ctx, s.model, buildMessages(s.SystemPrompt(), transcript), gen)
}

// SystemPrompt returns the active personality's system prompt, or "".
func (s *ChatSession) SystemPrompt() string {
	if s.personality == nil {
		return ""
	}
	return s.personality.SystemPrompt
}

// Personality returns the active personality (may be nil).
func (s *ChatSession) Personality() *config.Personality {
	return s.personality
}

// SetPersonality swaps the active personality. Subsequent requests use the
// new system prompt; the conversation history is untouched. A personality
// with a preferred model also switches the session's model.
func (s *ChatSession) SetPersonality(p *config.Personality) {
	s.personality = p
	if p != nil && p.Model != "" {
		s.model = models.ModelFromName(p.Model)
	}
}

// Model returns the session's model selection.
func (s *ChatSession) Model() models.Model {
	return s.model
}

// SetModel changes the session's model selection.
func (s *ChatSession) SetModel(model models.Model) {
	s.model = model
}
