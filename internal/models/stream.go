package models

// StreamEventKind discriminates the variants carried on a stream channel.
type StreamEventKind int

const (
	// StreamChunk carries an incremental fragment of assistant text.
	StreamChunk StreamEventKind = iota
	// StreamDone signals normal end of stream; Text holds the full reply.
	StreamDone
	// StreamError signals a terminal failure; Err holds the reason.
	StreamError
)

// StreamEvent is one item delivered on a streaming response channel.
// Exactly one terminal event (StreamDone or StreamError) ends every stream,
// after which the channel is closed.
type StreamEvent struct {
	Kind  StreamEventKind
	Text  string
	Err   error
	Usage *Usage // populated on StreamDone when the provider reports it
}

// Usage holds token accounting reported by the provider.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
