package model

import "context"

// EventKind enumerates the events a send operation can produce.
type EventKind int

const (
	// EventTextChunk carries an incremental text fragment.
	EventTextChunk EventKind = iota
	// EventToolCall signals the model requested a tool invocation. Terminal
	// for the consumer: the channel drains the rest of the provider stream
	// internally before emitting it, so turn-taking state stays consistent.
	EventToolCall
	// EventDone signals no network interaction is outstanding for this send.
	EventDone
)

// Event is one entry in the ordered, finite sequence a send produces.
type Event struct {
	Kind EventKind
	Text string   // EventTextChunk
	Call ToolCall // EventToolCall
}

// Stream delivers the events of one send operation in order. Exactly one
// terminal event (EventToolCall or EventDone) is delivered per send, after
// which the stream is closed.
type Stream struct {
	events chan Event
}

func NewStream() *Stream {
	return &Stream{events: make(chan Event, 16)}
}

// Events returns the ordered event sequence. The channel is closed after the
// terminal event.
func (s *Stream) Events() <-chan Event {
	return s.events
}

// Emit appends an event to the stream. Producer-side only.
func (s *Stream) Emit(ev Event) {
	s.events <- ev
}

// End closes the stream. The producer must have emitted the terminal event.
func (s *Stream) End() {
	close(s.events)
}

// Channel owns one logical conversation with the language model.
//
// Transport errors never escape: a failed send invalidates the underlying
// session (a fresh one is opened transparently on next use) and the stream
// carries a single synthetic system-style text chunk followed by EventDone.
type Channel interface {
	// SendUserText sends plain user text and streams the model's reply.
	SendUserText(ctx context.Context, text string) *Stream

	// SendToolResult answers a previously requested tool call and streams
	// the model's follow-up reply.
	SendToolResult(ctx context.Context, call ToolCall, result map[string]any) *Stream
}
