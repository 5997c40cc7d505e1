package model

import "context"

// ChatMessage is a provider-agnostic wire message. The session layer replays
// the full history on every send, so assistant tool requests and their
// results are kept in the transcript exactly as the backend produced them.
type ChatMessage struct {
	Role       string // "system", "user", "assistant", "tool"
	Content    string
	ToolCalls  []ToolCall // assistant messages that requested tool invocations
	ToolCallID string     // tool messages: id of the call being answered
	ToolName   string     // tool messages: name of the tool that produced the result
}

// ToolCall is a model-issued request to invoke a named external capability.
// Only the "location" argument is interpreted; other keys pass through
// opaquely into the replayed history.
type ToolCall struct {
	ID        string
	Name      string
	Arguments map[string]any
}

// Location extracts the interpreted location argument, if present.
func (t ToolCall) Location() (string, bool) {
	loc, ok := t.Arguments["location"].(string)
	if !ok || loc == "" {
		return "", false
	}
	return loc, true
}

// ToolProperty describes one parameter of a tool schema.
type ToolProperty struct {
	Type        string
	Description string
}

// ToolDef is a provider-agnostic tool declaration. Each provider converts it
// to its native schema format.
type ToolDef struct {
	Name        string
	Description string
	Properties  map[string]ToolProperty
	Required    []string
}

// WeatherToolName is the single tool this application declares.
const WeatherToolName = "get_current_weather"

// WeatherTool returns the declared schema for the weather tool.
func WeatherTool() ToolDef {
	return ToolDef{
		Name:        WeatherToolName,
		Description: "Get the current weather for a specific location. Always use this tool when the user asks about weather.",
		Properties: map[string]ToolProperty{
			"location": {
				Type:        "string",
				Description: "The city and country, e.g. London, UK or Tokyo, JP",
			},
		},
		Required: []string{"location"},
	}
}

// ModelInfo describes one model available on a provider.
type ModelInfo struct {
	Name         string // display name
	InternalName string // full API name
	Size         int64
	Provider     string // provider id: "ollama", "openai", "anthropic"
}

// StreamCallback is called for each chunk of streamed response.
type StreamCallback func(chunk string, toolCalls []ToolCall) error

// Provider abstracts LLM backends (Ollama, OpenAI, Anthropic).
//
// The interface lives in the model package, not the provider package, so
// implementations can import model without creating an import cycle.
type Provider interface {
	// ChatWithTools sends the full message history with declared tools and
	// streams the response back via callback.
	ChatWithTools(ctx context.Context, messages []ChatMessage, tools []ToolDef, callback StreamCallback) error

	// ListModels returns available models for this provider.
	ListModels(ctx context.Context) ([]ModelInfo, error)

	// GetModel returns the currently selected model name.
	GetModel() string

	// GetDisplayName returns the model name formatted for UI display.
	GetDisplayName() string

	// SetModel changes the active model.
	SetModel(model string)

	// Ping checks if the provider is reachable.
	Ping(ctx context.Context) error
}
