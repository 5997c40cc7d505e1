package provider

import (
	"context"
	"fmt"

	"github.com/ollama/ollama/api"

	"skycast/model"
	"skycast/ollama"
)

// OllamaProvider wraps ollama.Client to implement the Provider interface.
type OllamaProvider struct {
	client *ollama.Client
}

func NewOllamaProvider(baseURL, modelName string) (*OllamaProvider, error) {
	client, err := ollama.NewClient(baseURL, modelName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama client: %w", err)
	}

	return &OllamaProvider{client: client}, nil
}

// ChatWithTools implements Provider.ChatWithTools with type conversions
// between the provider-agnostic types and Ollama's API types.
func (p *OllamaProvider) ChatWithTools(ctx context.Context, messages []model.ChatMessage, tools []model.ToolDef, callback model.StreamCallback) error {
	ollamaMessages := convertToOllamaMessages(messages)

	var ollamaTools []api.Tool
	if len(tools) > 0 {
		ollamaTools = convertToolDefsToOllama(tools)
	}

	ollamaCallback := func(chunk string, ollamaCalls []api.ToolCall) error {
		if callback == nil {
			return nil
		}
		return callback(chunk, convertFromOllamaToolCalls(ollamaCalls))
	}

	return p.client.ChatWithTools(ctx, ollamaMessages, ollamaTools, ollamaCallback)
}

// ListModels implements Provider.ListModels (direct passthrough).
func (p *OllamaProvider) ListModels(ctx context.Context) ([]model.ModelInfo, error) {
	return p.client.ListModels(ctx)
}

// GetModel implements Provider.GetModel (direct passthrough).
func (p *OllamaProvider) GetModel() string {
	return p.client.GetModel()
}

// GetDisplayName implements Provider.GetDisplayName. For Ollama the display
// name is the model name itself.
func (p *OllamaProvider) GetDisplayName() string {
	return p.client.GetModel()
}

// SetModel implements Provider.SetModel (direct passthrough).
func (p *OllamaProvider) SetModel(modelName string) {
	p.client.SetModel(modelName)
}

// Ping implements Provider.Ping (direct passthrough).
func (p *OllamaProvider) Ping(ctx context.Context) error {
	return p.client.Ping(ctx)
}

func convertToOllamaMessages(messages []model.ChatMessage) []api.Message {
	result := make([]api.Message, len(messages))
	for i, msg := range messages {
		converted := api.Message{
			Role:    msg.Role,
			Content: msg.Content,
		}
		if len(msg.ToolCalls) > 0 {
			converted.ToolCalls = convertToOllamaToolCalls(msg.ToolCalls)
		}
		if msg.Role == "tool" {
			converted.ToolName = msg.ToolName
		}
		result[i] = converted
	}
	return result
}

func convertToOllamaToolCalls(calls []model.ToolCall) []api.ToolCall {
	result := make([]api.ToolCall, len(calls))
	for i, call := range calls {
		result[i] = api.ToolCall{
			Function: api.ToolCallFunction{
				Name:      call.Name,
				Arguments: api.ToolCallFunctionArguments(call.Arguments),
			},
		}
	}
	return result
}

func convertFromOllamaToolCalls(calls []api.ToolCall) []model.ToolCall {
	if len(calls) == 0 {
		return nil
	}
	result := make([]model.ToolCall, len(calls))
	for i, call := range calls {
		args := make(map[string]any, len(call.Function.Arguments))
		for k, v := range call.Function.Arguments {
			args[k] = v
		}
		result[i] = model.ToolCall{
			// Ollama does not assign call ids; the session layer fills one in.
			Name:      call.Function.Name,
			Arguments: args,
		}
	}
	return result
}

func convertToolDefsToOllama(tools []model.ToolDef) []api.Tool {
	result := make([]api.Tool, 0, len(tools))
	for _, tool := range tools {
		properties := make(map[string]api.ToolProperty, len(tool.Properties))
		for name, prop := range tool.Properties {
			properties[name] = api.ToolProperty{
				Type:        api.PropertyType{prop.Type},
				Description: prop.Description,
			}
		}
		result = append(result, api.Tool{
			Type: "function",
			Function: api.ToolFunction{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters: api.ToolFunctionParameters{
					Type:       "object",
					Required:   tool.Required,
					Properties: properties,
				},
			},
		})
	}
	return result
}
