// Package session owns the logical conversation with the language model.
//
// The remote APIs are stateless, so the "session" is the replayed message
// history this package keeps on behalf of the provider, seeded with a fixed
// system policy and the single declared weather tool. Errors are values in
// the event stream, never panics or returned errors: a transport failure
// invalidates the session (discarded wholesale, reopened transparently on
// the next user send) and surfaces as one synthetic system-style chunk.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"skycast/config"
	"skycast/model"
)

const systemPolicy = `You are SkyCast, a specialized, friendly, and professional weather AI assistant.
Your goal is to provide accurate weather information using the available tools.

RULES:
1. GREETINGS: If the user says "hi", "hello", or similar greetings, reply warmly and introduce yourself as a weather assistant. Ask them where they would like to check the weather.
2. WEATHER ONLY: You are strictly limited to weather-related topics.
   - If the user asks about the weather, ALWAYS use the 'get_current_weather' tool.
   - If the user asks a general question (e.g., "What is the capital of France?", "Write a poem"), politely REFUSE.
   - Say something like: "I'm sorry, but I can only help with weather-related inquiries. Would you like to check the weather somewhere?"
3. PERSONALITY: Be polite, concise, and helpful. Use emojis occasionally to be friendly (e.g., 🌤️, 🌧️).
4. DATA PRESENTATION: When presenting weather data, make it easy to read. Mention the temperature, condition, and key details like humidity or wind.
5. REALTIME: Always fetch real-time data using the tool. Do not guess.`

const transportErrorNotice = "\n[System]: Sorry, I encountered an error. Please try again."

// Channel implements model.Channel over a model.Provider.
type Channel struct {
	provider model.Provider

	// mu serializes sends; the state machine already prevents concurrent
	// sends at the domain level, this guards the history against misuse.
	mu      sync.Mutex
	history []model.ChatMessage
	opened  bool
}

func NewChannel(provider model.Provider) *Channel {
	return &Channel{provider: provider}
}

// SendUserText sends plain user text. Opens a fresh session on first use and
// after any invalidation.
func (c *Channel) SendUserText(ctx context.Context, text string) *model.Stream {
	stream := model.NewStream()
	go c.run(ctx, stream, model.ChatMessage{Role: "user", Content: text}, true)
	return stream
}

// SendToolResult answers a previously requested tool call. If the session
// that issued the call has been invalidated in the meantime, the call id is
// meaningless to a fresh session, so this reports the transport error
// instead of replaying a malformed history.
func (c *Channel) SendToolResult(ctx context.Context, call model.ToolCall, result map[string]any) *model.Stream {
	stream := model.NewStream()

	payload, err := json.Marshal(result)
	if err != nil {
		payload = []byte(fmt.Sprintf(`{"error":%q}`, err.Error()))
	}

	go c.run(ctx, stream, model.ChatMessage{
		Role:       "tool",
		Content:    string(payload),
		ToolCallID: call.ID,
		ToolName:   call.Name,
	}, false)
	return stream
}

func (c *Channel) run(ctx context.Context, stream *model.Stream, msg model.ChatMessage, allowOpen bool) {
	defer stream.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.opened {
		if !allowOpen {
			stream.Emit(model.Event{Kind: model.EventTextChunk, Text: transportErrorNotice})
			stream.Emit(model.Event{Kind: model.EventDone})
			return
		}
		c.history = []model.ChatMessage{{Role: "system", Content: systemPolicy}}
		c.opened = true
	}

	c.history = append(c.history, msg)

	var reply []byte
	var pending *model.ToolCall

	tools := []model.ToolDef{model.WeatherTool()}
	err := c.provider.ChatWithTools(ctx, c.history, tools, func(chunk string, calls []model.ToolCall) error {
		// Once a tool call is seen the producer has no further text for this
		// turn; anything that still arrives is drained and dropped. Never
		// abort here: cutting the stream short desyncs the remote session's
		// turn-taking state.
		if chunk != "" && pending == nil {
			reply = append(reply, chunk...)
			stream.Emit(model.Event{Kind: model.EventTextChunk, Text: chunk})
		}
		if len(calls) > 0 && pending == nil {
			first := calls[0]
			if first.ID == "" {
				first.ID = uuid.New().String()
			}
			pending = &first
		}
		return nil
	})

	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Session] send failed, invalidating session: %v", err)
		}
		c.opened = false
		c.history = nil
		stream.Emit(model.Event{Kind: model.EventTextChunk, Text: transportErrorNotice})
		stream.Emit(model.Event{Kind: model.EventDone})
		return
	}

	if pending != nil {
		c.history = append(c.history, model.ChatMessage{
			Role:      "assistant",
			Content:   string(reply),
			ToolCalls: []model.ToolCall{*pending},
		})
		// Terminal for the consumer; the drain above already completed.
		stream.Emit(model.Event{Kind: model.EventToolCall, Call: *pending})
		return
	}

	c.history = append(c.history, model.ChatMessage{Role: "assistant", Content: string(reply)})
	stream.Emit(model.Event{Kind: model.EventDone})
}
