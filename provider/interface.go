// Package provider implements the model.Provider interface for the
// supported LLM backends (Ollama, OpenAI, Anthropic).
//
// The interface itself is defined in the model package (model/provider.go)
// to avoid import cycles: implementations here import model, and model uses
// the Provider interface without importing this package. Each implementation
// handles the conversions between the provider-agnostic ChatMessage /
// ToolDef / ToolCall types and its SDK's native types, including the replay
// of assistant tool requests and tool results in the history.
package provider

// ProviderType identifies the provider implementation.
type ProviderType string

const (
	ProviderTypeOllama    ProviderType = "ollama"
	ProviderTypeOpenAI    ProviderType = "openai"
	ProviderTypeAnthropic ProviderType = "anthropic"
)

// Config holds provider-specific configuration.
type Config struct {
	Type    ProviderType
	BaseURL string
	Model   string
	APIKey  string // for OpenAI/Anthropic (unused for Ollama)
}
