package api

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/rmarques/wildchat/internal/config"
	apierrors "github.com/rmarques/wildchat/internal/errors"
	"github.com/rmarques/wildchat/internal/models"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name      string
		token     string
		opts      []ClientOption
		wantErr   bool
		wantModel models.Model
	}{
		{
			name:      "valid token with defaults",
			token:     "hf_test",
			opts:      []ClientOption{WithHTTPClient(&mockHTTPClient{})},
			wantModel: models.DefaultModel,
		},
		{
			name:      "with custom model",
			token:     "hf_test",
			opts:      []ClientOption{WithHTTPClient(&mockHTTPClient{}), WithModel(models.ModelQwen25Coder)},
			wantModel: models.ModelQwen25Coder,
		},
		{
			name:    "empty token rejected",
			token:   "",
			wantErr: true,
		},
		{
			name:    "whitespace token rejected",
			token:   "   ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.token, tt.opts...)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, apierrors.ErrNoToken) {
					t.Errorf("expected ErrNoToken, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewClient failed: %v", err)
			}
			if got := client.GetModel(); got != tt.wantModel {
				t.Errorf("model = %v, want %v", got, tt.wantModel)
			}
		})
	}
}

func TestClientBaseURL(t *testing.T) {
	client, err := NewClient("tok",
		WithHTTPClient(&mockHTTPClient{}),
		WithBaseURL("https://example.test/v1/"),
	)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	if got := client.chatCompletionsURL(); got != "https://example.test/v1/chat/completions" {
		t.Errorf("chatCompletionsURL = %q", got)
	}
	if got := client.modelsURL(); got != "https://example.test/v1/models" {
		t.Errorf("modelsURL = %q", got)
	}
}

func TestClientClose(t *testing.T) {
	client := newTestClient(t, nil)

	if client.IsClosed() {
		t.Fatal("client should not start closed")
	}

	client.Close()
	if !client.IsClosed() {
		t.Fatal("client should be closed after Close")
	}

	// Close is idempotent
	client.Close()

	_, err := client.StreamChatCompletion(context.Background(), models.DefaultModel, userMessages("hi"))
	if err == nil {
		t.Error("expected error from closed client")
	}
}

func TestStartChat(t *testing.T) {
	client := newTestClient(t, nil)

	t.Run("nil personality keeps client model", func(t *testing.T) {
		session := client.StartChat(nil)
		if session.Model() != models.DefaultModel {
			t.Errorf("model = %v, want client default", session.Model())
		}
		if session.SystemPrompt() != "" {
			t.Errorf("system prompt = %q, want empty", session.SystemPrompt())
		}
	})

	t.Run("personality preferred model wins", func(t *testing.T) {
		p := &config.Personality{
			Name:         "coder",
			SystemPrompt: "You write Go.",
			Model:        models.ModelQwen25Coder.Name,
		}
		session := client.StartChat(p)
		if session.Model().Name != models.ModelQwen25Coder.Name {
			t.Errorf("model = %v, want %v", session.Model(), models.ModelQwen25Coder)
		}
		if session.SystemPrompt() != "You write Go." {
			t.Errorf("system prompt = %q", session.SystemPrompt())
		}
	})
}

func TestBuildChatPayload(t *testing.T) {
	gen := config.GenerationConfig{
		Temperature: 0.7,
		TopP:        0.95,
		MaxTokens:   500,
	}

	t.Run("empty model rejected", func(t *testing.T) {
		_, err := buildChatPayload(models.Model{}, userMessages("hi"), gen, true)
		if err == nil {
			t.Error("expected error for empty model")
		}
	})

	t.Run("empty messages rejected", func(t *testing.T) {
		_, err := buildChatPayload(models.DefaultModel, nil, gen, true)
		if err == nil {
			t.Error("expected error for empty messages")
		}
	})

	t.Run("fields serialize", func(t *testing.T) {
		payload, err := buildChatPayload(models.DefaultModel, userMessages("hi"), gen, true)
		if err != nil {
			t.Fatalf("buildChatPayload failed: %v", err)
		}

		body := string(payload)
		if got := gjson.Get(body, "model").String(); got != models.DefaultModel.Name {
			t.Errorf("model = %q", got)
		}
		if got := gjson.Get(body, "temperature").Float(); got != 0.7 {
			t.Errorf("temperature = %v", got)
		}
		if got := gjson.Get(body, "top_p").Float(); got != 0.95 {
			t.Errorf("top_p = %v", got)
		}
		if got := gjson.Get(body, "max_tokens").Int(); got != 500 {
			t.Errorf("max_tokens = %v", got)
		}
		if !gjson.Get(body, "stream").Bool() {
			t.Error("stream should be true")
		}
		if got := gjson.Get(body, "messages.0.content").String(); got != "hi" {
			t.Errorf("messages[0].content = %q", got)
		}
	})
}

func TestBuildMessages(t *testing.T) {
	transcript := []models.Message{
		{Role: models.RoleUser, Content: "first"},
		{Role: models.RoleAssistant, Content: "reply"},
		{Role: models.RoleUser, Content: "second"},
	}

	t.Run("system prompt prepended", func(t *testing.T) {
		msgs := buildMessages("be brief", transcript)
		if len(msgs) != 4 {
			t.Fatalf("got %d messages, want 4", len(msgs))
		}
		if msgs[0].Role != models.RoleSystem || msgs[0].Content != "be brief" {
			t.Errorf("msgs[0] = %+v", msgs[0])
		}
		for i, m := range msgs[1:] {
			if m != transcript[i] {
				t.Errorf("msgs[%d] = %+v, want %+v", i+1, m, transcript[i])
			}
		}
	})

	t.Run("no system prompt", func(t *testing.T) {
		msgs := buildMessages("", transcript)
		if len(msgs) != len(transcript) {
			t.Fatalf("got %d messages, want %d", len(msgs), len(transcript))
		}
		if msgs[0].Role != models.RoleUser {
			t.Errorf("msgs[0].Role = %v, want user", msgs[0].Role)
		}
	})

	t.Run("transcript not mutated", func(t *testing.T) {
		before := strings.Join([]string{transcript[0].Content, transcript[1].Content, transcript[2].Content}, "|")
		_ = buildMessages("sys", transcript)
		after := strings.Join([]string{transcript[0].Content, transcript[1].Content, transcript[2].Content}, "|")
		if before != after {
			t.Error("transcript was mutated")
		}
	})
}
