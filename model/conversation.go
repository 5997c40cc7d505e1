package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"skycast/weather"
)

// State is the conversation's position in the tool-call confirmation
// protocol. New user input is accepted only in StateIdle, which makes the
// exclusivity of streaming and pending confirmation hold by construction.
type State int

const (
	StateIdle State = iota
	StateStreaming
	StateAwaitingToolConfirmation
)

const welcomeText = "Hello! I'm SkyCast, your friendly weather assistant. 🌤️\nAsk me about the weather anywhere in the world!"

// Conversation owns the ordered message log and enforces the confirmation
// protocol. All mutation goes through its methods; the log is append-only
// except for the single documented removal of an empty placeholder
// superseded by a tool-call confirmation message.
type Conversation struct {
	Messages []Message
	state    State
}

func NewConversation() *Conversation {
	return &Conversation{
		Messages: []Message{{
			ID:        uuid.New().String(),
			Role:      RoleModel,
			Content:   welcomeText,
			Rendered:  welcomeText,
			Timestamp: time.Now(),
		}},
	}
}

func (c *Conversation) State() State { return c.state }

func (c *Conversation) IsStreaming() bool { return c.state == StateStreaming }

func (c *Conversation) IsAwaitingToolConfirmation() bool {
	return c.state == StateAwaitingToolConfirmation
}

// Submit appends a user message plus the streaming placeholder that will
// accumulate the reply, and returns the placeholder's id. Rejected outside
// StateIdle: input arriving while a response streams or a confirmation is
// pending is ignored, not queued.
func (c *Conversation) Submit(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" || c.state != StateIdle {
		return "", false
	}

	c.Messages = append(c.Messages, NewUserMessage(text))
	placeholder := NewModelPlaceholder()
	c.Messages = append(c.Messages, placeholder)
	c.state = StateStreaming

	return placeholder.ID, true
}

// AppendChunk concatenates one chunk onto the identified streaming message.
// Chunks must be applied strictly in arrival order; this does nothing more
// than byte-order-preserving concatenation.
func (c *Conversation) AppendChunk(id, chunk string) bool {
	msg := c.find(id)
	if msg == nil || !msg.Streaming {
		return false
	}
	msg.Content += chunk
	msg.Rendered = msg.Content
	return true
}

// FinishStream marks the identified message complete and returns the
// conversation to StateIdle.
func (c *Conversation) FinishStream(id string) {
	if msg := c.find(id); msg != nil {
		msg.Streaming = false
	}
	c.state = StateIdle
}

// SetContent replaces the accumulated content of a streaming message. Used
// when a send produced partial text before a tool call superseded it.
func (c *Conversation) SetContent(id, content string) {
	if msg := c.find(id); msg != nil {
		msg.Content = content
		msg.Rendered = content
	}
}

// RequireConfirmation pauses the conversation on a model-requested tool
// call. The still-empty streaming placeholder is discarded (no partial text
// is lost because none was produced); a confirmation message holding the
// pending call takes its place. Returns the confirmation message id.
func (c *Conversation) RequireConfirmation(call ToolCall) (string, bool) {
	if c.state != StateStreaming {
		return "", false
	}

	// The documented removal: drop the placeholder only if nothing streamed
	// into it before the tool call arrived. Partial text survives as a
	// finished message.
	if n := len(c.Messages); n > 0 {
		last := &c.Messages[n-1]
		if last.Role == RoleModel && last.Streaming {
			if last.Content == "" {
				c.Messages = c.Messages[:n-1]
			} else {
				last.Streaming = false
			}
		}
	}

	location, ok := call.Location()
	if !ok {
		location = "the requested location"
	}

	pending := call
	confirmation := Message{
		ID:                   uuid.New().String(),
		Role:                 RoleModel,
		Content:              fmt.Sprintf("Do you want me to show the weather data for %s?", location),
		Timestamp:            time.Now(),
		ToolCall:             &pending,
		AwaitingConfirmation: true,
	}
	confirmation.Rendered = confirmation.Content

	c.Messages = append(c.Messages, confirmation)
	c.state = StateAwaitingToolConfirmation

	return confirmation.ID, true
}

// Confirm resolves the pending tool call on the identified message in favor
// of execution. The message content becomes a fetching notice and the
// conversation moves to StateStreaming for the follow-up round trip.
// A no-op unless the message holds an unresolved tool call.
func (c *Conversation) Confirm(id string) (ToolCall, bool) {
	msg := c.resolvable(id)
	if msg == nil {
		return ToolCall{}, false
	}

	call := *msg.ToolCall
	location, ok := call.Location()
	if !ok {
		location = "the requested location"
	}

	msg.Content = fmt.Sprintf("Checking weather for %s...", location)
	msg.Rendered = msg.Content
	msg.AwaitingConfirmation = false
	msg.ToolCall = nil
	c.state = StateStreaming

	return call, true
}

// Cancel resolves the pending tool call against execution. Same shape as
// Confirm, but the content becomes a cancellation notice; the follow-up
// round trip still runs so the model can acknowledge the refusal.
func (c *Conversation) Cancel(id string) (ToolCall, bool) {
	msg := c.resolvable(id)
	if msg == nil {
		return ToolCall{}, false
	}

	call := *msg.ToolCall
	msg.Content = "❌ Request cancelled."
	msg.Rendered = msg.Content
	msg.AwaitingConfirmation = false
	msg.ToolCall = nil
	c.state = StateStreaming

	return call, true
}

// BeginToolReply appends the streaming placeholder for the model's reply to
// a tool result. The weather record, when present, is attached before any
// chunk arrives.
func (c *Conversation) BeginToolReply(rec *weather.Record) string {
	placeholder := NewModelPlaceholder()
	placeholder.Weather = rec
	c.Messages = append(c.Messages, placeholder)
	return placeholder.ID
}

// ForceIdle abandons whatever round is in flight and re-enters StateIdle so
// the user can submit again. Defensive recovery, not a designed transition;
// any trailing streaming placeholder is finalized in place.
func (c *Conversation) ForceIdle() {
	for i := range c.Messages {
		c.Messages[i].Streaming = false
	}
	c.state = StateIdle
}

// AppendSystem adds an inline system-style notice to the log.
func (c *Conversation) AppendSystem(content string) {
	c.Messages = append(c.Messages, NewSystemMessage(content))
}

// SetRendered caches the markdown rendering for a finished message.
func (c *Conversation) SetRendered(id, rendered string) {
	if msg := c.find(id); msg != nil {
		msg.Rendered = rendered
	}
}

func (c *Conversation) find(id string) *Message {
	for i := range c.Messages {
		if c.Messages[i].ID == id {
			return &c.Messages[i]
		}
	}
	return nil
}

func (c *Conversation) resolvable(id string) *Message {
	if c.state != StateAwaitingToolConfirmation {
		return nil
	}
	msg := c.find(id)
	if msg == nil || msg.ToolCall == nil || !msg.AwaitingConfirmation {
		return nil
	}
	return msg
}
