package model

import (
	"time"

	"github.com/google/uuid"

	"skycast/weather"
)

const (
	RoleUser   = "user"
	RoleModel  = "model"
	RoleSystem = "system"
)

// Message represents one entry in the ordered, append-only conversation log.
type Message struct {
	ID        string
	Role      string
	Content   string // grows only by appending chunks in arrival order
	Rendered  string // cached markdown rendering
	Timestamp time.Time

	// Streaming is true while more chunks are expected for this message.
	Streaming bool

	// Weather is an optional structured payload, set at most once and only
	// on model messages. It is attached before any chunk arrives so the card
	// can render ahead of the text.
	Weather *weather.Record

	// ToolCall is present only while this message represents an unconfirmed
	// tool invocation awaiting the user's decision.
	ToolCall             *ToolCall
	AwaitingConfirmation bool
}

func NewUserMessage(content string) Message {
	return Message{
		ID:        uuid.New().String(),
		Role:      RoleUser,
		Content:   content,
		Rendered:  content,
		Timestamp: time.Now(),
	}
}

// NewModelPlaceholder creates the empty accumulation target for a streamed
// model reply.
func NewModelPlaceholder() Message {
	return Message{
		ID:        uuid.New().String(),
		Role:      RoleModel,
		Timestamp: time.Now(),
		Streaming: true,
	}
}

func NewSystemMessage(content string) Message {
	return Message{
		ID:        uuid.New().String(),
		Role:      RoleSystem,
		Content:   content,
		Rendered:  content,
		Timestamp: time.Now(),
	}
}
