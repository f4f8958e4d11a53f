package api

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	http "github.com/bogdanfinn/fhttp"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"github.com/rmarques/wildchat/internal/config"
	apierrors "github.com/rmarques/wildchat/internal/errors"
	"github.com/rmarques/wildchat/internal/models"
)

// StreamChatCompletion sends one streaming chat-completions request and
// returns a channel of events. Chunks arrive in receive order; exactly one
// terminal event (done or error) ends the stream, then the channel closes.
// The receive loop runs in its own goroutine so a stalled connection never
// blocks the caller; cancel ctx to abandon the request.
//
// No automatic retry is performed on any failure.
func (c *Client) StreamChatCompletion(ctx context.Context, model models.Model, messages []models.Message) (<-chan models.StreamEvent, error) {
	return c.streamWithGeneration(ctx, model, messages, c.generation)
}

// streamWithGeneration is StreamChatCompletion with explicit sampling
// parameters; sessions use it for per-personality overrides.
func (c *Client) streamWithGeneration(ctx context.Context, model models.Model, messages []models.Message, gen config.GenerationConfig) (<-chan models.StreamEvent, error) {
	if c.IsClosed() {
		return nil, fmt.Errorf("client is closed")
	}

	payload, err := buildChatPayload(model, messages, gen, true)
	if err != nil {
		return nil, err
	}

	events := make(chan models.StreamEvent, 32)
	go c.runStream(ctx, payload, events)
	return events, nil
}

// runStream performs the HTTP exchange and pumps events until a terminal
// state. It owns closing the channel.
func (c *Client) runStream(ctx context.Context, payload []byte, events chan<- models.StreamEvent) {
	defer close(events)

	emitChunk := func(text string) bool {
		select {
		case events <- models.StreamEvent{Kind: models.StreamChunk, Text: text}:
			return true
		case <-ctx.Done():
			return false
		}
	}

	// Terminal events are sent unconditionally. Only chunk sends may be
	// abandoned on cancellation; racing the terminal send against ctx.Done
	// would sometimes close the channel with no done or error event at all.
	// The buffered channel and the consumer's outstanding receive keep this
	// send from blocking.
	fail := func(err error) {
		log.Debug().Err(err).Msg("stream failed")
		events <- models.StreamEvent{Kind: models.StreamError, Err: err}
	}

	endpoint := c.chatCompletionsURL()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		fail(fmt.Errorf("failed to create request: %w", err))
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		fail(mapTransportError(ctx, err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, models.MaxErrorBodyForDisplay))
		fail(mapStatusError(resp.StatusCode, endpoint, body))
		return
	}

	full, usage, err := decodeStream(resp.Body, emitChunk)
	if err != nil {
		fail(mapTransportError(ctx, err))
		return
	}

	log.Debug().Int("chars", len(full)).Msg("stream complete")
	events <- models.StreamEvent{Kind: models.StreamDone, Text: full, Usage: usage}
}

// decodeStream reads SSE lines from the response body, forwarding each text
// delta through onChunk in arrival order. It returns the concatenated reply.
// Keep-alive (empty) lines and malformed data lines are skipped; the stream
// ends at the [DONE] marker or EOF.
func decodeStream(body io.Reader, onChunk func(string) bool) (string, *models.Usage, error) {
	reader := bufio.NewReader(body)
	var full strings.Builder
	var usage *models.Usage

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				// Providers normally terminate with [DONE]; a bare EOF
				// after content still counts as a complete reply.
				return full.String(), usage, nil
			}
			return full.String(), usage, err
		}

		line = strings.TrimRight(line, "\r\n")
		if line == "" || strings.HasPrefix(line, ":") {
			continue // keep-alive
		}
		if !strings.HasPrefix(line, models.SSEDataPrefix) {
			continue
		}

		data := strings.TrimPrefix(line, models.SSEDataPrefix)
		if data == models.SSEDoneMarker {
			return full.String(), usage, nil
		}

		if !gjson.Valid(data) {
			// Malformed frame: skip rather than kill the whole reply.
			continue
		}

		if u := gjson.Get(data, "usage"); u.Exists() && u.IsObject() {
			usage = &models.Usage{
				PromptTokens:     int(u.Get("prompt_tokens").Int()),
				CompletionTokens: int(u.Get("completion_tokens").Int()),
				TotalTokens:      int(u.Get("total_tokens").Int()),
			}
		}

		piece := gjson.Get(data, "choices.0.delta.content")
		if !piece.Exists() || piece.String() == "" {
			continue
		}

		full.WriteString(piece.String())
		if !onChunk(piece.String()) {
			return full.String(), usage, context.Canceled
		}
	}
}

// mapStatusError converts a non-2xx response into the error taxonomy.
func mapStatusError(status int, endpoint string, body []byte) error {
	message := providerMessage(body)

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return apierrors.NewAuthError(message)
	case status == http.StatusTooManyRequests:
		return apierrors.NewRateLimitError(message)
	default:
		return apierrors.NewAPIError(status, endpoint, message)
	}
}

// providerMessage extracts a human-readable reason from an error body.
func providerMessage(body []byte) string {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return "no error details provided"
	}

	if gjson.ValidBytes(body) {
		if msg := gjson.GetBytes(body, "error.message"); msg.Exists() {
			return msg.String()
		}
		if msg := gjson.GetBytes(body, "error"); msg.Exists() && msg.Type == gjson.String {
			return msg.String()
		}
	}

	return text
}

// mapTransportError converts a transport-level failure into the taxonomy.
func mapTransportError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, context.Canceled) || ctx.Err() == context.Canceled:
		return context.Canceled
	case errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err):
		return apierrors.NewTimeoutError(err.Error())
	case isTimeoutString(err):
		return apierrors.NewTimeoutError(err.Error())
	default:
		return apierrors.NewNetworkError(err.Error(), err)
	}
}

// isTimeoutString catches timeout errors the HTTP client reports as plain
// strings rather than typed errors.
func isTimeoutString(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "Client.Timeout") || strings.Contains(msg, "deadline exceeded")
}
