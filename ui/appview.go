package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	appmodel "skycast/model"
)

type AppView struct {
	// Reference to core data model
	dataModel *appmodel.Model

	// UI components
	viewport viewport.Model
	textarea textarea.Model

	// Window state
	width  int
	height int
	ready  bool

	// Loading spinner (bubbles/spinner)
	loadingSpinner spinner.Model

	// Typewriter effect fields
	chunks         []string // Collected chunks to replay
	chunkIndex     int      // Next chunk to display
	fullResponse   string   // Complete response text for markdown rendering
	streamTargetID string   // Message the chunks accumulate into
	toolReplyRound bool     // Current stream answers a tool result

	// Pending tool confirmation
	pendingConfirmationID string

	showHelp bool

	// Model selector
	showModelSelector bool
	modelList         []appmodel.ModelInfo
	selectedModelIdx  int
	modelListCached   bool
	modelFilterMode   bool
	modelFilterInput  textinput.Model
	filteredModelList []appmodel.ModelInfo

	// Transient status bar notice, cleared on the next keypress
	statusNotice string
}

func NewAppView(dataModel *appmodel.Model) AppView {
	ta := textarea.New()
	ta.Placeholder = "Ask about the weather anywhere in the world..."
	ta.Focus()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetWidth(80)

	// Alt+Enter for newline; plain Enter sends and is handled separately
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))

	ta.SetPromptFunc(2, func(lineIdx int) string {
		if lineIdx == 0 {
			return "> "
		}
		return "| "
	})

	vp := viewport.New(0, 0)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(accentColor)

	modelFilterInput := textinput.New()
	modelFilterInput.Prompt = "Filter: "
	modelFilterInput.CharLimit = 64

	return AppView{
		dataModel:        dataModel,
		textarea:         ta,
		viewport:         vp,
		loadingSpinner:   sp,
		modelFilterInput: modelFilterInput,
	}
}

func (a AppView) Init() tea.Cmd {
	// Markdown rendering waits for the first WindowSizeMsg so width is known
	return tea.Batch(
		textarea.Blink,
		a.loadingSpinner.Tick,
		a.dataModel.FetchModelList(),
	)
}

func (a AppView) View() string {
	if !a.ready {
		return "Loading SkyCast..."
	}

	if a.showHelp {
		return renderHelpModal(a.width, a.height)
	}

	if a.showModelSelector {
		return renderModelSelector(
			a.getModelList(),
			a.selectedModelIdx,
			a.dataModel.Provider.GetModel(),
			a.modelFilterMode,
			a.modelFilterInput,
			a.width,
			a.height,
		)
	}

	// Title bar - "SkyCast - model"
	title := AssistantStyle.Render("SkyCast") +
		TitleStyle.Render(fmt.Sprintf(" - %s", a.dataModel.Provider.GetDisplayName())) +
		DimStyle.Render(fmt.Sprintf(" (%s)", a.dataModel.Config.ProviderType))

	viewportView := a.viewport.View()
	inputView := a.textarea.View()

	statusBar := a.renderStatusBar()

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		viewportView,
		inputView,
		statusBar,
	)
}

func (a AppView) renderStatusBar() string {
	if a.statusNotice != "" {
		return StatusStyle.Render(a.statusNotice)
	}

	if a.dataModel.Conversation.IsAwaitingToolConfirmation() {
		return UserStyle.Render("[y]") + StatusStyle.Render(" Yes  ") +
			WarningStyle.Render("[n]") + StatusStyle.Render(" No")
	}

	descStyle := lipgloss.NewStyle().Foreground(successColor).Bold(true)
	statusBar := fmt.Sprintf("Alt+Q %s  Alt+M %s  Alt+Y %s  Alt+H %s  Alt+Enter %s  Enter %s",
		descStyle.Render("Quit"),
		descStyle.Render("Models"),
		descStyle.Render("Copy"),
		descStyle.Render("Help"),
		descStyle.Render("New Line"),
		descStyle.Render("Send"),
	)
	return StatusStyle.Render(statusBar)
}

func (a AppView) getModelList() []appmodel.ModelInfo {
	if a.modelFilterMode && len(a.filteredModelList) > 0 {
		return a.filteredModelList
	}
	return a.modelList
}
