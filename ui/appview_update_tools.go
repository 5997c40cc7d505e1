package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"skycast/config"
	appmodel "skycast/model"
)

// handleToolMessage handles the tool-call confirmation round trip.
func (a AppView) handleToolMessage(msg tea.Msg) (AppView, tea.Cmd) {
	switch msg := msg.(type) {
	case appmodel.ToolCallRequestedMsg:
		return a.handleToolCallRequested(msg)

	case appmodel.ToolResultReadyMsg:
		return a.handleToolResultReady(msg)
	}

	return a, nil
}

func (a AppView) handleToolCallRequested(msg appmodel.ToolCallRequestedMsg) (AppView, tea.Cmd) {
	conv := a.dataModel.Conversation

	// A tool call while replying to a tool result is not supported; abandon
	// the round so the user can submit again.
	if msg.FromToolReply {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[UI] tool call during tool reply (%s) - abandoning round", msg.Call.Name)
		}
		conv.ForceIdle()
		conv.AppendSystem("⚠️ The assistant got confused and asked for another lookup mid-answer. Please try again.")
		a.streamTargetID = ""
		a.toolReplyRound = false
		a.chunks = nil
		a.updateViewportContent(true)
		return a, nil
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[UI] tool call requested: %s", msg.Call.Name)
	}

	// Text streamed before the tool call survives as a finished message
	if msg.InitialResponse != "" && a.streamTargetID != "" {
		conv.SetContent(a.streamTargetID, msg.InitialResponse)
	}

	confirmationID, ok := conv.RequireConfirmation(msg.Call)
	if !ok {
		return a, nil
	}

	a.pendingConfirmationID = confirmationID
	a.streamTargetID = ""
	a.chunks = nil
	a.chunkIndex = 0
	a.updateViewportContent(true)

	return a, nil
}

func (a AppView) handleToolResultReady(msg appmodel.ToolResultReadyMsg) (AppView, tea.Cmd) {
	if config.DebugLog != nil {
		config.DebugLog.Printf("[UI] tool result ready (cancelled=%v)", msg.Cancelled)
	}

	// The weather record is attached to the placeholder before any chunk of
	// the follow-up reply arrives
	a.streamTargetID = a.dataModel.Conversation.BeginToolReply(msg.Record)
	a.toolReplyRound = true
	a.chunks = nil
	a.chunkIndex = 0
	a.updateViewportContent(true)

	return a, tea.Batch(
		a.loadingSpinner.Tick,
		a.dataModel.SendToolResult(msg.Call, msg.Result),
	)
}

func (a AppView) confirmPendingToolCall() (tea.Model, tea.Cmd) {
	call, ok := a.dataModel.Conversation.Confirm(a.pendingConfirmationID)
	if !ok {
		return a, nil
	}

	a.pendingConfirmationID = ""
	a.updateViewportContent(true)

	return a, tea.Batch(
		a.loadingSpinner.Tick,
		a.dataModel.ResolveToolCall(call, true),
	)
}

func (a AppView) cancelPendingToolCall() (tea.Model, tea.Cmd) {
	call, ok := a.dataModel.Conversation.Cancel(a.pendingConfirmationID)
	if !ok {
		return a, nil
	}

	a.pendingConfirmationID = ""
	a.updateViewportContent(true)

	return a, tea.Batch(
		a.loadingSpinner.Tick,
		a.dataModel.ResolveToolCall(call, false),
	)
}
