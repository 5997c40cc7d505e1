package model

import "skycast/weather"

// StreamChunksCollectedMsg reports a fully drained send whose terminal event
// was Done. Chunks are replayed into the placeholder in arrival order.
type StreamChunksCollectedMsg struct {
	Chunks        []string
	FullResponse  string
	FromToolReply bool
}

// ToolCallRequestedMsg reports a send whose terminal event was a tool call.
// InitialResponse carries any text the model produced before requesting the
// tool. FromToolReply marks a nested request arriving during a tool round,
// which is unsupported and handled as a protocol anomaly.
type ToolCallRequestedMsg struct {
	Call            ToolCall
	InitialResponse string
	FromToolReply   bool
}

// ToolResultReadyMsg carries the outcome of resolving a confirmed or
// cancelled tool call, ready to be sent back to the model.
type ToolResultReadyMsg struct {
	Call      ToolCall
	Record    *weather.Record // nil on fetch failure or cancellation
	Result    map[string]any  // {"weather": record} or {"error": message}
	Cancelled bool
}

// DisplayChunkTickMsg paces the typewriter replay of collected chunks.
type DisplayChunkTickMsg struct{}

// MarkdownRenderedMsg delivers an async markdown rendering for a message.
type MarkdownRenderedMsg struct {
	MessageID string
	Rendered  string
}

// ModelsListMsg delivers the provider's model list.
type ModelsListMsg struct {
	Models []ModelInfo
	Err    error
}
