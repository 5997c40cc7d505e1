package model

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"skycast/config"
)

const (
	sendTimeout  = 120 * time.Second
	fetchTimeout = 15 * time.Second
)

// SendUserText forwards user text to the model session and collects the
// resulting stream. The channel never errors past its boundary, so the only
// outcomes are collected chunks or a tool-call request.
func (m *Model) SendUserText(text string) tea.Cmd {
	channel := m.Channel
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		if config.DebugLog != nil {
			config.DebugLog.Printf("[Model] sending user text (%d chars)", len(text))
		}

		return collectStream(channel.SendUserText(ctx, text), false)
	}
}

// SendToolResult answers a resolved tool call and collects the follow-up
// stream. A tool call arriving on this stream is a nested request, reported
// with FromToolReply set so the UI can recover to idle.
func (m *Model) SendToolResult(call ToolCall, result map[string]any) tea.Cmd {
	channel := m.Channel
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		if config.DebugLog != nil {
			config.DebugLog.Printf("[Model] sending tool result for call %s (%s)", call.ID, call.Name)
		}

		return collectStream(channel.SendToolResult(ctx, call, result), true)
	}
}

// ResolveToolCall produces the tool result payload for a confirmed or
// cancelled call. Cancellation never touches the fetcher or the cache; a
// confirmed call consults the cache first and performs at most one outbound
// request.
func (m *Model) ResolveToolCall(call ToolCall, approved bool) tea.Cmd {
	fetcher := m.Fetcher
	cache := m.Cache
	return func() tea.Msg {
		if !approved {
			return ToolResultReadyMsg{
				Call:      call,
				Result:    map[string]any{"error": "User cancelled the request."},
				Cancelled: true,
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		location, _ := call.Location()

		if cache != nil {
			if rec, err := cache.Get(location); err == nil && rec != nil {
				if config.DebugLog != nil {
					config.DebugLog.Printf("[Model] weather cache hit for %q", location)
				}
				return ToolResultReadyMsg{Call: call, Record: rec, Result: map[string]any{"weather": rec}}
			}
		}

		rec, err := fetcher.Fetch(ctx, location)
		if err != nil || rec == nil {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[Model] weather fetch failed for %q: %v", location, err)
			}
			return ToolResultReadyMsg{
				Call:   call,
				Result: map[string]any{"error": "Could not fetch weather. Please try again."},
			}
		}

		if cache != nil {
			if err := cache.Put(location, rec); err != nil && config.DebugLog != nil {
				config.DebugLog.Printf("[Model] weather cache write failed for %q: %v", location, err)
			}
		}

		return ToolResultReadyMsg{Call: call, Record: rec, Result: map[string]any{"weather": rec}}
	}
}

// FetchModelList retrieves the list of available models from the provider.
func (m *Model) FetchModelList() tea.Cmd {
	provider := m.Provider
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		models, err := provider.ListModels(ctx)
		return ModelsListMsg{Models: models, Err: err}
	}
}

// collectStream consumes one send's event stream to its terminal event.
// Chunk order is preserved exactly as delivered.
func collectStream(stream *Stream, fromToolReply bool) tea.Msg {
	var chunks []string
	var full strings.Builder

	for ev := range stream.Events() {
		switch ev.Kind {
		case EventTextChunk:
			chunks = append(chunks, ev.Text)
			full.WriteString(ev.Text)
		case EventToolCall:
			return ToolCallRequestedMsg{
				Call:            ev.Call,
				InitialResponse: full.String(),
				FromToolReply:   fromToolReply,
			}
		case EventDone:
			return StreamChunksCollectedMsg{
				Chunks:        chunks,
				FullResponse:  full.String(),
				FromToolReply: fromToolReply,
			}
		}
	}

	// Stream closed without a terminal event; treat as complete.
	return StreamChunksCollectedMsg{
		Chunks:        chunks,
		FullResponse:  full.String(),
		FromToolReply: fromToolReply,
	}
}
