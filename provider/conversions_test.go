package provider

import (
	"testing"

	"github.com/ollama/ollama/api"

	"skycast/model"
)

func TestConvertToOllamaMessages(t *testing.T) {
	messages := []model.ChatMessage{
		{Role: "system", Content: "policy"},
		{Role: "user", Content: "weather in London?"},
		{
			Role:    "assistant",
			Content: "Let me check.",
			ToolCalls: []model.ToolCall{{
				ID:        "call-1",
				Name:      model.WeatherToolName,
				Arguments: map[string]any{"location": "London"},
			}},
		},
		{
			Role:       "tool",
			Content:    `{"weather":{"temp_c":21}}`,
			ToolCallID: "call-1",
			ToolName:   model.WeatherToolName,
		},
	}

	converted := convertToOllamaMessages(messages)

	if len(converted) != 4 {
		t.Fatalf("converted %d messages, want 4", len(converted))
	}

	if converted[0].Role != "system" || converted[1].Role != "user" {
		t.Errorf("roles = %q, %q", converted[0].Role, converted[1].Role)
	}

	assistant := converted[2]
	if len(assistant.ToolCalls) != 1 {
		t.Fatalf("assistant tool calls = %d, want 1", len(assistant.ToolCalls))
	}
	if assistant.ToolCalls[0].Function.Name != model.WeatherToolName {
		t.Errorf("tool call name = %q", assistant.ToolCalls[0].Function.Name)
	}
	if got := assistant.ToolCalls[0].Function.Arguments["location"]; got != "London" {
		t.Errorf("tool call location = %v", got)
	}

	toolMsg := converted[3]
	if toolMsg.Role != "tool" || toolMsg.ToolName != model.WeatherToolName {
		t.Errorf("tool message = %+v", toolMsg)
	}
}

func TestConvertFromOllamaToolCalls(t *testing.T) {
	calls := []api.ToolCall{{
		Function: api.ToolCallFunction{
			Name:      model.WeatherToolName,
			Arguments: api.ToolCallFunctionArguments{"location": "Paris"},
		},
	}}

	converted := convertFromOllamaToolCalls(calls)

	if len(converted) != 1 {
		t.Fatalf("converted %d calls, want 1", len(converted))
	}
	if converted[0].Name != model.WeatherToolName {
		t.Errorf("name = %q", converted[0].Name)
	}
	if loc, ok := converted[0].Location(); !ok || loc != "Paris" {
		t.Errorf("location = %q (ok=%v)", loc, ok)
	}
	// Ollama has no call ids; the session layer fills one in later
	if converted[0].ID != "" {
		t.Errorf("id = %q, want empty", converted[0].ID)
	}
}

func TestConvertFromOllamaToolCallsEmpty(t *testing.T) {
	if got := convertFromOllamaToolCalls(nil); got != nil {
		t.Errorf("convertFromOllamaToolCalls(nil) = %v, want nil", got)
	}
}

func TestConvertToolDefsToOllama(t *testing.T) {
	converted := convertToolDefsToOllama([]model.ToolDef{model.WeatherTool()})

	if len(converted) != 1 {
		t.Fatalf("converted %d tools, want 1", len(converted))
	}

	tool := converted[0]
	if tool.Type != "function" {
		t.Errorf("type = %q", tool.Type)
	}
	if tool.Function.Name != model.WeatherToolName {
		t.Errorf("name = %q", tool.Function.Name)
	}
	if len(tool.Function.Parameters.Required) != 1 || tool.Function.Parameters.Required[0] != "location" {
		t.Errorf("required = %v", tool.Function.Parameters.Required)
	}
	if _, ok := tool.Function.Parameters.Properties["location"]; !ok {
		t.Error("location property missing")
	}
}

func TestConvertToOpenAIMessagesToolRound(t *testing.T) {
	messages := []model.ChatMessage{
		{Role: "user", Content: "weather?"},
		{
			Role: "assistant",
			ToolCalls: []model.ToolCall{{
				ID:        "call-9",
				Name:      model.WeatherToolName,
				Arguments: map[string]any{"location": "Tokyo"},
			}},
		},
		{Role: "tool", Content: `{"error":"User cancelled the request."}`, ToolCallID: "call-9"},
	}

	converted := convertToOpenAIMessages(messages)

	if len(converted) != 3 {
		t.Fatalf("converted %d messages, want 3", len(converted))
	}
	if converted[1].OfAssistant == nil || len(converted[1].OfAssistant.ToolCalls) != 1 {
		t.Fatalf("assistant message = %+v", converted[1])
	}
	if converted[2].OfTool == nil || converted[2].OfTool.ToolCallID != "call-9" {
		t.Errorf("tool message = %+v", converted[2])
	}
}

func TestParseToolArguments(t *testing.T) {
	args := parseToolArguments(`{"location": "Berlin"}`)
	if args["location"] != "Berlin" {
		t.Errorf("args = %v", args)
	}

	// Malformed arguments degrade to an empty map, never nil
	broken := parseToolArguments(`{"location":`)
	if broken == nil || len(broken) != 0 {
		t.Errorf("broken args = %v, want empty map", broken)
	}
}
