package ui

import (
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"skycast/config"
	appmodel "skycast/model"
)

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return a.handleWindowSize(msg)

	case tea.KeyMsg:
		return a.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.loadingSpinner, cmd = a.loadingSpinner.Update(msg)
		// The spinner only needs to animate while a reply is pending
		if a.dataModel.Conversation.IsStreaming() {
			a.updateViewportContent(false)
			return a, cmd
		}
		return a, nil

	case appmodel.StreamChunksCollectedMsg, appmodel.DisplayChunkTickMsg, appmodel.MarkdownRenderedMsg:
		return a.handleStreamingMessage(msg)

	case appmodel.ToolCallRequestedMsg, appmodel.ToolResultReadyMsg:
		return a.handleToolMessage(msg)

	case appmodel.ModelsListMsg:
		return a.handleModelsList(msg)
	}

	a.textarea, tiCmd = a.textarea.Update(msg)
	a.viewport, vpCmd = a.viewport.Update(msg)
	return a, tea.Batch(tiCmd, vpCmd)
}

func (a AppView) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	a.width = msg.Width
	a.height = msg.Height

	headerHeight := 2
	footerHeight := a.textarea.Height() + 2

	if !a.ready {
		a.viewport = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
		a.ready = true
	} else {
		a.viewport.Width = msg.Width
		a.viewport.Height = msg.Height - headerHeight - footerHeight
	}

	a.textarea.SetWidth(msg.Width - 2)
	a.updateViewportContent(true)

	return a, nil
}

func (a AppView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.statusNotice = ""

	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	if a.showModelSelector {
		return a.handleModelSelectorKey(msg)
	}

	conv := a.dataModel.Conversation

	switch msg.String() {
	case "ctrl+c", "alt+q":
		a.dataModel.Quitting = true
		return a, tea.Quit

	case "alt+h":
		a.showHelp = true
		return a, nil

	case "alt+m":
		return a.openModelSelector()

	case "alt+y":
		return a.copyLastReply()

	case "y", "Y":
		if conv.IsAwaitingToolConfirmation() {
			return a.confirmPendingToolCall()
		}

	case "n", "N":
		if conv.IsAwaitingToolConfirmation() {
			return a.cancelPendingToolCall()
		}

	case "enter":
		return a.submitInput()
	}

	// Keys held back from the textarea while a confirmation is pending
	if conv.IsAwaitingToolConfirmation() {
		return a, nil
	}

	var tiCmd tea.Cmd
	a.textarea, tiCmd = a.textarea.Update(msg)

	var vpCmd tea.Cmd
	a.viewport, vpCmd = a.viewport.Update(msg)

	return a, tea.Batch(tiCmd, vpCmd)
}

// submitInput starts a new round trip. Input is rejected while a response
// streams or a confirmation is pending; the conversation enforces this.
func (a AppView) submitInput() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(a.textarea.Value())

	placeholderID, ok := a.dataModel.Conversation.Submit(text)
	if !ok {
		return a, nil
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[UI] user message submitted, placeholder=%s", placeholderID)
	}

	a.streamTargetID = placeholderID
	a.toolReplyRound = false
	a.chunks = nil
	a.chunkIndex = 0
	a.textarea.Reset()
	a.updateViewportContent(true)

	return a, tea.Batch(
		a.loadingSpinner.Tick,
		a.dataModel.SendUserText(text),
	)
}

func (a AppView) copyLastReply() (tea.Model, tea.Cmd) {
	messages := a.dataModel.Conversation.Messages
	for i := len(messages) - 1; i >= 0; i-- {
		msg := messages[i]
		if msg.Role == appmodel.RoleModel && !msg.Streaming && msg.Content != "" {
			if err := clipboard.WriteAll(msg.Content); err != nil {
				a.statusNotice = "Copy failed: clipboard unavailable"
				return a, nil
			}
			a.statusNotice = "Copied last reply to clipboard"
			return a, nil
		}
	}
	return a, nil
}
