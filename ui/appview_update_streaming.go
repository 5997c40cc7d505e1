package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"skycast/config"
	appmodel "skycast/model"
)

// handleStreamingMessage handles all streaming-related messages
func (a AppView) handleStreamingMessage(msg tea.Msg) (AppView, tea.Cmd) {
	switch msg := msg.(type) {
	case appmodel.StreamChunksCollectedMsg:
		if config.DebugLog != nil {
			config.DebugLog.Printf("[UI] stream collected - %d chunks", len(msg.Chunks))
		}

		// A tool call or forced recovery may have retired the placeholder
		if a.streamTargetID == "" || !a.dataModel.Conversation.IsStreaming() {
			return a, nil
		}

		// Initialize typewriter replay; the spinner stays visible until the
		// first chunk lands
		a.chunks = msg.Chunks
		a.chunkIndex = 0
		a.fullResponse = msg.FullResponse

		return a, tea.Tick(300*time.Millisecond, func(time.Time) tea.Msg {
			return appmodel.DisplayChunkTickMsg{}
		})

	case appmodel.DisplayChunkTickMsg:
		if a.streamTargetID == "" || !a.dataModel.Conversation.IsStreaming() {
			return a, nil
		}

		if a.chunkIndex >= len(a.chunks) {
			return a.finalizeStream()
		}

		// Chunks apply strictly in collection order
		chunk := a.chunks[a.chunkIndex]
		a.chunkIndex++
		a.dataModel.Conversation.AppendChunk(a.streamTargetID, chunk)
		a.updateViewportContent(true)

		delay := 30 * time.Millisecond
		if a.chunkIndex == 1 {
			delay = time.Millisecond // First chunk nearly immediate
		}

		return a, tea.Tick(delay, func(time.Time) tea.Msg {
			return appmodel.DisplayChunkTickMsg{}
		})

	case appmodel.MarkdownRenderedMsg:
		a.dataModel.Conversation.SetRendered(msg.MessageID, msg.Rendered)
		a.updateViewportContent(false)
		return a, nil
	}

	return a, nil
}

func (a AppView) finalizeStream() (AppView, tea.Cmd) {
	targetID := a.streamTargetID
	fullResponse := a.fullResponse

	a.dataModel.Conversation.FinishStream(targetID)
	a.chunks = nil
	a.chunkIndex = 0
	a.streamTargetID = ""
	a.fullResponse = ""

	if config.DebugLog != nil {
		config.DebugLog.Printf("[UI] typewriter complete - finalizing message %s", targetID)
	}

	if fullResponse == "" && !a.toolReplyRound {
		a.dataModel.Conversation.SetContent(targetID, "⚠️ No response received.")
	}
	a.toolReplyRound = false

	a.updateViewportContent(true)

	if fullResponse == "" {
		return a, nil
	}
	return a, a.renderMarkdownAsync(targetID, fullResponse)
}
