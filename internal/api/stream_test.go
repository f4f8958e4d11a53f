package api

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"testing"

	http2 "github.com/bogdanfinn/fhttp"
	"github.com/bogdanfinn/tls-client/bandwidth"

	apierrors "github.com/rmarques/wildchat/internal/errors"
	"github.com/rmarques/wildchat/internal/models"
)

// mockHTTPClient implements tls_client.HttpClient for testing
type mockHTTPClient struct {
	doFunc func(req *http2.Request) (*http2.Response, error)
}

func (m *mockHTTPClient) GetCookies(u *url.URL) []*http2.Cookie          { return nil }
func (m *mockHTTPClient) SetCookies(u *url.URL, cookies []*http2.Cookie) {}
func (m *mockHTTPClient) SetCookieJar(jar http2.CookieJar)               {}
func (m *mockHTTPClient) GetCookieJar() http2.CookieJar                  { return nil }
func (m *mockHTTPClient) SetProxy(proxyUrl string) error                 { return nil }
func (m *mockHTTPClient) GetProxy() string                               { return "" }
func (m *mockHTTPClient) SetFollowRedirect(followRedirect bool)          {}
func (m *mockHTTPClient) GetFollowRedirect() bool                        { return false }
func (m *mockHTTPClient) CloseIdleConnections()                          {}
func (m *mockHTTPClient) Get(url string) (*http2.Response, error)        { return nil, nil }
func (m *mockHTTPClient) Head(url string) (*http2.Response, error)       { return nil, nil }
func (m *mockHTTPClient) Post(url, contentType string, body io.Reader) (*http2.Response, error) {
	return nil, nil
}
func (m *mockHTTPClient) GetBandwidthTracker() bandwidth.BandwidthTracker { return nil }

func (m *mockHTTPClient) Do(req *http2.Request) (*http2.Response, error) {
	if m.doFunc != nil {
		return m.doFunc(req)
	}
	return nil, nil
}

// sseResponse builds an HTTP response with the given status and body
func sseResponse(status int, body string) *http2.Response {
	return &http2.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http2.Header),
	}
}

// collectEvents drains the event channel into a slice
func collectEvents(t *testing.T, ch <-chan models.StreamEvent) []models.StreamEvent {
	t.Helper()
	var events []models.StreamEvent
	for ev := range ch {
		events = append(events, ev)
	}
	return events
}

func newTestClient(t *testing.T, doFunc func(req *http2.Request) (*http2.Response, error)) *Client {
	t.Helper()
	client, err := NewClient("test-token", WithHTTPClient(&mockHTTPClient{doFunc: doFunc}))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client
}

func userMessages(contents ...string) []models.Message {
	msgs := make([]models.Message, len(contents))
	for i, c := range contents {
		msgs[i] = models.Message{Role: models.RoleUser, Content: c}
	}
	return msgs
}

func TestDecodeStream(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantChunks []string
		wantFull   string
	}{
		{
			name: "chunks concatenate in order",
			body: "data: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\n" +
				"data: {\"choices\":[{\"delta\":{\"content\":\"lo\"}}]}\n" +
				"data: [DONE]\n",
			wantChunks: []string{"Hel", "lo"},
			wantFull:   "Hello",
		},
		{
			name: "keep-alive lines are skipped",
			body: "\n" +
				": keep-alive\n" +
				"data: {\"choices\":[{\"delta\":{\"content\":\"hi\"}}]}\n" +
				"\n" +
				"data: [DONE]\n",
			wantChunks: []string{"hi"},
			wantFull:   "hi",
		},
		{
			name: "malformed frames are skipped",
			body: "data: {not json\n" +
				"data: {\"choices\":[{\"delta\":{\"content\":\"ok\"}}]}\n" +
				"data: [DONE]\n",
			wantChunks: []string{"ok"},
			wantFull:   "ok",
		},
		{
			name: "empty deltas produce no chunks",
			body: "data: {\"choices\":[{\"delta\":{\"role\":\"assistant\"}}]}\n" +
				"data: {\"choices\":[{\"delta\":{\"content\":\"\"}}]}\n" +
				"data: {\"choices\":[{\"delta\":{\"content\":\"x\"}}]}\n" +
				"data: [DONE]\n",
			wantChunks: []string{"x"},
			wantFull:   "x",
		},
		{
			name:       "EOF without DONE still completes",
			body:       "data: {\"choices\":[{\"delta\":{\"content\":\"tail\"}}]}\n",
			wantChunks: []string{"tail"},
			wantFull:   "tail",
		},
		{
			name:       "content after DONE is ignored",
			body:       "data: [DONE]\ndata: {\"choices\":[{\"delta\":{\"content\":\"late\"}}]}\n",
			wantChunks: nil,
			wantFull:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var chunks []string
			full, _, err := decodeStream(strings.NewReader(tt.body), func(text string) bool {
				chunks = append(chunks, text)
				return true
			})
			if err != nil {
				t.Fatalf("decodeStream returned error: %v", err)
			}
			if full != tt.wantFull {
				t.Errorf("full = %q, want %q", full, tt.wantFull)
			}
			if len(chunks) != len(tt.wantChunks) {
				t.Fatalf("got %d chunks %v, want %d", len(chunks), chunks, len(tt.wantChunks))
			}
			for i := range chunks {
				if chunks[i] != tt.wantChunks[i] {
					t.Errorf("chunk[%d] = %q, want %q", i, chunks[i], tt.wantChunks[i])
				}
			}
		})
	}
}

func TestDecodeStreamUsage(t *testing.T) {
	body := "data: {\"choices\":[{\"delta\":{\"content\":\"hi\"}}]}\n" +
		"data: {\"choices\":[],\"usage\":{\"prompt_tokens\":12,\"completion_tokens\":5,\"total_tokens\":17}}\n" +
		"data: [DONE]\n"

	_, usage, err := decodeStream(strings.NewReader(body), func(string) bool { return true })
	if err != nil {
		t.Fatalf("decodeStream returned error: %v", err)
	}
	if usage == nil {
		t.Fatal("expected usage to be parsed")
	}
	if usage.PromptTokens != 12 || usage.CompletionTokens != 5 || usage.TotalTokens != 17 {
		t.Errorf("usage = %+v, want {12 5 17}", usage)
	}
}

func TestDecodeStreamCanceledConsumer(t *testing.T) {
	body := "data: {\"choices\":[{\"delta\":{\"content\":\"a\"}}]}\n" +
		"data: {\"choices\":[{\"delta\":{\"content\":\"b\"}}]}\n" +
		"data: [DONE]\n"

	full, _, err := decodeStream(strings.NewReader(body), func(string) bool { return false })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if full != "a" {
		t.Errorf("full = %q, want %q", full, "a")
	}
}

func TestStreamChatCompletionSuccess(t *testing.T) {
	body := "data: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\n" +
		"data: {\"choices\":[{\"delta\":{\"content\":\"lo\"}}]}\n" +
		"data: [DONE]\n"

	var gotReq *http2.Request
	client := newTestClient(t, func(req *http2.Request) (*http2.Response, error) {
		gotReq = req
		return sseResponse(200, body), nil
	})

	ch, err := client.StreamChatCompletion(context.Background(), models.DefaultModel, userMessages("hello"))
	if err != nil {
		t.Fatalf("StreamChatCompletion failed: %v", err)
	}

	events := collectEvents(t, ch)
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3: %+v", len(events), events)
	}
	if events[0].Kind != models.StreamChunk || events[0].Text != "Hel" {
		t.Errorf("event[0] = %+v, want chunk %q", events[0], "Hel")
	}
	if events[1].Kind != models.StreamChunk || events[1].Text != "lo" {
		t.Errorf("event[1] = %+v, want chunk %q", events[1], "lo")
	}
	if events[2].Kind != models.StreamDone || events[2].Text != "Hello" {
		t.Errorf("event[2] = %+v, want done with %q", events[2], "Hello")
	}

	// Request shape
	if gotReq.Header.Get("Authorization") != "Bearer test-token" {
		t.Errorf("Authorization = %q", gotReq.Header.Get("Authorization"))
	}
	if gotReq.Header.Get("Accept") != "text/event-stream" {
		t.Errorf("Accept = %q", gotReq.Header.Get("Accept"))
	}
	reqBody, _ := io.ReadAll(gotReq.Body)
	if !strings.Contains(string(reqBody), "\"stream\":true") {
		t.Errorf("request body missing stream flag: %s", reqBody)
	}
	if !strings.Contains(string(reqBody), models.DefaultModel.Name) {
		t.Errorf("request body missing model id: %s", reqBody)
	}
}

func TestStreamChatCompletionStatusErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(error) bool
	}{
		{
			name:   "401 maps to auth error",
			status: 401,
			body:   `{"error":{"message":"invalid token"}}`,
			check:  apierrors.IsAuthError,
		},
		{
			name:   "403 maps to auth error",
			status: 403,
			body:   "forbidden",
			check:  apierrors.IsAuthError,
		},
		{
			name:   "429 maps to rate limit error",
			status: 429,
			body:   `{"error":{"message":"slow down"}}`,
			check:  apierrors.IsRateLimitError,
		},
		{
			name:   "500 maps to provider error",
			status: 500,
			body:   "upstream exploded",
			check: func(err error) bool {
				return apierrors.GetHTTPStatus(err) == 500
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(req *http2.Request) (*http2.Response, error) {
				return sseResponse(tt.status, tt.body), nil
			})

			ch, err := client.StreamChatCompletion(context.Background(), models.DefaultModel, userMessages("hi"))
			if err != nil {
				t.Fatalf("StreamChatCompletion failed: %v", err)
			}

			events := collectEvents(t, ch)
			if len(events) != 1 {
				t.Fatalf("got %d events, want 1 error event", len(events))
			}
			if events[0].Kind != models.StreamError {
				t.Fatalf("event kind = %v, want error", events[0].Kind)
			}
			if !tt.check(events[0].Err) {
				t.Errorf("error %v failed classification check", events[0].Err)
			}
		})
	}
}

func TestStreamChatCompletionTransportError(t *testing.T) {
	client := newTestClient(t, func(req *http2.Request) (*http2.Response, error) {
		return nil, errors.New("dial tcp 127.0.0.1:443: connection refused")
	})

	ch, err := client.StreamChatCompletion(context.Background(), models.DefaultModel, userMessages("hi"))
	if err != nil {
		t.Fatalf("StreamChatCompletion failed: %v", err)
	}

	events := collectEvents(t, ch)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if !apierrors.IsNetworkError(events[0].Err) {
		t.Errorf("expected network error, got %v", events[0].Err)
	}
}

// blockingBody blocks reads until the request context is canceled, standing
// in for a connection with no data in flight.
type blockingBody struct {
	ctx context.Context
}

func (b blockingBody) Read(p []byte) (int, error) {
	<-b.ctx.Done()
	return 0, b.ctx.Err()
}

func (b blockingBody) Close() error { return nil }

func TestCanceledStreamAlwaysEndsWithTerminalEvent(t *testing.T) {
	// The terminal event must not race the cancellation: every canceled
	// stream ends with exactly one error event before the channel closes.
	for i := 0; i < 200; i++ {
		client := newTestClient(t, func(req *http2.Request) (*http2.Response, error) {
			return &http2.Response{
				StatusCode: 200,
				Header:     make(http2.Header),
				Body:       blockingBody{ctx: req.Context()},
			}, nil
		})

		ctx, cancel := context.WithCancel(context.Background())
		ch, err := client.StreamChatCompletion(ctx, models.DefaultModel, userMessages("hi"))
		if err != nil {
			t.Fatalf("StreamChatCompletion failed: %v", err)
		}
		cancel()

		terminals := 0
		var lastErr error
		for ev := range ch {
			if ev.Kind == models.StreamError || ev.Kind == models.StreamDone {
				terminals++
				lastErr = ev.Err
			}
		}

		if terminals != 1 {
			t.Fatalf("iteration %d: got %d terminal events, want exactly 1", i, terminals)
		}
		if !errors.Is(lastErr, context.Canceled) {
			t.Fatalf("iteration %d: terminal err = %v, want context.Canceled", i, lastErr)
		}
	}
}

func TestMapTransportError(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{
			name:  "deadline exceeded maps to timeout",
			err:   context.DeadlineExceeded,
			check: apierrors.IsTimeoutError,
		},
		{
			name:  "client timeout string maps to timeout",
			err:   errors.New("Get: Client.Timeout exceeded while awaiting headers"),
			check: apierrors.IsTimeoutError,
		},
		{
			name:  "generic failure maps to network error",
			err:   errors.New("connection reset by peer"),
			check: apierrors.IsNetworkError,
		},
		{
			name: "canceled passes through",
			err:  context.Canceled,
			check: func(err error) bool {
				return errors.Is(err, context.Canceled)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapTransportError(ctx, tt.err)
			if !tt.check(got) {
				t.Errorf("mapTransportError(%v) = %v, failed check", tt.err, got)
			}
		})
	}
}

func TestProviderMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "structured error message",
			body: `{"error":{"message":"model overloaded"}}`,
			want: "model overloaded",
		},
		{
			name: "string error field",
			body: `{"error":"bad request"}`,
			want: "bad request",
		},
		{
			name: "plain text body",
			body: "Service Unavailable",
			want: "Service Unavailable",
		},
		{
			name: "empty body",
			body: "",
			want: "no error details provided",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := providerMessage([]byte(tt.body)); got != tt.want {
				t.Errorf("providerMessage = %q, want %q", got, tt.want)
			}
		})
	}
}
