package tui

import (
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// streamingBuffer batches incoming tokens so the view repaints at a capped
// frame rate instead of once per delta. Tokens accumulate until either the
// batch size or the minimum flush interval is reached.
//
// Thread-safety: tokens arrive from the stream-relay commands while flushes
// happen in the main Bubble Tea loop, so all operations take the mutex.
type streamingBuffer struct {
	mu         sync.Mutex
	buffer     strings.Builder
	tokenCount int
	lastFlush  time.Time

	batchSize int           // tokens per batch
	minFlush  time.Duration // min time between flushes
}

const (
	defaultBatchSize = 15
	defaultMaxFPS    = 30
)

// newStreamingBuffer creates a buffer with the default batch size (15 tokens)
// and frame cap (30fps, ~33ms between flushes).
func newStreamingBuffer() *streamingBuffer {
	return &streamingBuffer{
		batchSize: defaultBatchSize,
		minFlush:  time.Second / defaultMaxFPS,
		lastFlush: time.Now(),
	}
}

// Write adds a token to the buffer.
func (sb *streamingBuffer) Write(token string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	sb.buffer.WriteString(token)
	sb.tokenCount++
}

// Flush returns accumulated content when either threshold is reached.
// Returns ("", false) when nothing should be flushed yet.
func (sb *streamingBuffer) Flush() (string, bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if sb.buffer.Len() == 0 {
		return "", false
	}

	if sb.tokenCount < sb.batchSize && time.Since(sb.lastFlush) < sb.minFlush {
		return "", false
	}

	return sb.drainLocked(), true
}

// ForceFlush drains all buffered content regardless of thresholds. Used when
// a stream completes so the tail of the response is never lost.
func (sb *streamingBuffer) ForceFlush() (string, bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if sb.buffer.Len() == 0 {
		return "", false
	}

	return sb.drainLocked(), true
}

// Reset clears the buffer without flushing. Used when canceling a stream or
// starting a new message.
func (sb *streamingBuffer) Reset() {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	sb.buffer.Reset()
	sb.tokenCount = 0
	sb.lastFlush = time.Now()
}

// Pending returns the number of tokens waiting to be flushed.
func (sb *streamingBuffer) Pending() int {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return sb.tokenCount
}

// drainLocked extracts the content and resets counters. Caller holds the lock.
func (sb *streamingBuffer) drainLocked() string {
	content := sb.buffer.String()
	sb.buffer.Reset()
	sb.tokenCount = 0
	sb.lastFlush = time.Now()
	return content
}

// flushTick drives buffer flushes while a response is streaming.
func flushTick() tea.Cmd {
	return tea.Tick(33*time.Millisecond, func(t time.Time) tea.Msg {
		return flushTickMsg(t)
	})
}
