// Package api implements the client for the Hugging Face Inference
// Providers router (OpenAI-compatible chat-completions API).
package api

import (
	"fmt"
	"strings"
	"sync"

	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"

	"github.com/rmarques/wildchat/internal/config"
	apierrors "github.com/rmarques/wildchat/internal/errors"
	"github.com/rmarques/wildchat/internal/models"
)

// Client is the main client for the inference API.
type Client struct {
	httpClient tls_client.HttpClient
	token      string
	baseURL    string
	model      models.Model
	generation config.GenerationConfig
	mu         sync.RWMutex
	closed     bool
}

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithModel sets the default model for the client
func WithModel(model models.Model) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// WithBaseURL overrides the inference endpoint base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithGeneration sets the sampling parameters sent with every request
func WithGeneration(gen config.GenerationConfig) ClientOption {
	return func(c *Client) {
		c.generation = gen
	}
}

// WithHTTPClient injects a pre-built HTTP client (used by tests)
func WithHTTPClient(httpClient tls_client.HttpClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a new Client. The token is required: outbound calls
// carry it as a bearer credential.
func NewClient(token string, opts ...ClientOption) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, apierrors.ErrNoToken
	}

	client := &Client{
		token:      token,
		baseURL:    models.DefaultBaseURL,
		model:      models.DefaultModel,
		generation: config.DefaultGenerationConfig(),
	}

	// Apply options
	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		timeout := client.generation.TimeoutSeconds
		if timeout <= 0 {
			timeout = models.DefaultTimeoutSeconds
		}

		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(timeout),
			tls_client.WithClientProfile(profiles.Chrome_120),
			tls_client.WithNotFollowRedirects(),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// StartChat creates a chat session bound to this client.
func (c *Client) StartChat(personality *config.Personality) *ChatSession {
	model := c.GetModel()
	if personality != nil && personality.Model != "" {
		model = models.ModelFromName(personality.Model)
	}

	return &ChatSession{
		client:      c,
		personality: personality,
		model:       model,
	}
}

// GetModel returns the client's default model.
func (c *Client) GetModel() models.Model {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model
}

// SetModel changes the client's default model.
func (c *Client) SetModel(model models.Model) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.model = model
}

// IsClosed reports whether Close has been called.
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// Close shuts the client down. In-flight streams end with an error event
// when their connection drops.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.httpClient.CloseIdleConnections()
}

func (c *Client) chatCompletionsURL() string {
	return c.baseURL + models.PathChatCompletions
}

func (c *Client) modelsURL() string {
	return c.baseURL + models.PathModels
}
