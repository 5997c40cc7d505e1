package ui

import (
	"fmt"
	"regexp"
	"strings"

	markdown "github.com/MichaelMure/go-term-markdown"
	tea "github.com/charmbracelet/bubbletea"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"

	"skycast/config"
	appmodel "skycast/model"
)

// Pre-compiled regex patterns for better performance
var (
	inlineCodeRegex = regexp.MustCompile(`(?s)\x1b\[44;3m(.*?)\x1b\[0m`)
	mdLinkRegex     = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\)]+)\)`)
	urlRegex        = regexp.MustCompile(`(https?://[^\s]+)`)
)

func (a *AppView) updateViewportContent(gotoBottom bool) {
	messages := a.dataModel.Conversation.Messages
	if len(messages) == 0 {
		a.viewport.SetContent("No messages yet. Start chatting!")
		return
	}

	var content strings.Builder

	for _, msg := range messages {
		timestamp := DimStyle.Render(msg.Timestamp.Format("[15:04]"))

		var roleStyle = DimStyle
		var roleName string
		switch msg.Role {
		case appmodel.RoleUser:
			roleStyle = UserStyle
			roleName = "You"
		case appmodel.RoleModel:
			roleStyle = AssistantStyle
			roleName = "SkyCast"
		default:
			roleStyle = DimStyle
			roleName = "System"
		}

		role := roleStyle.Render(roleName)

		if msg.Role == appmodel.RoleUser {
			content.WriteString(formatUserMessage(timestamp, role, msg.Rendered))
			continue
		}

		renderedContent := msg.Rendered

		// Spinner while the placeholder waits for its first chunk
		if msg.Streaming && msg.Content == "" {
			renderedContent = fmt.Sprintf("%s Thinking...", a.loadingSpinner.View())
		} else if msg.Streaming {
			renderedContent = msg.Rendered + "▋"
		}

		if msg.AwaitingConfirmation {
			renderedContent += "\n\n" + formatConfirmationPrompt()
		}

		// The weather card precedes the reply that summarizes it
		if msg.Weather != nil {
			content.WriteString(fmt.Sprintf("%s %s\n%s\n", timestamp, role, renderWeatherCard(msg.Weather)))
			if renderedContent != "" {
				content.WriteString(fmt.Sprintf("%s\n\n", renderedContent))
			} else {
				content.WriteString("\n")
			}
			continue
		}

		content.WriteString(fmt.Sprintf("%s %s\n%s\n\n", timestamp, role, renderedContent))
	}

	a.viewport.SetContent(content.String())
	if gotoBottom {
		a.viewport.GotoBottom()
	}
}

func formatUserMessage(timestamp, role, content string) string {
	greenBold := "\x1b[32;1m"
	reset := "\x1b[0m"
	bar := greenBold + "┃" + reset

	lines := strings.Split(content, "\n")

	var result strings.Builder
	result.WriteString(fmt.Sprintf("%s %s %s\n", bar, timestamp, role))

	for _, line := range lines {
		result.WriteString(fmt.Sprintf("%s %s\n", bar, line))
	}

	result.WriteString("\n")

	return result.String()
}

func formatConfirmationPrompt() string {
	greenBold := "\x1b[32;1m"
	redBold := "\x1b[31;1m"
	reset := "\x1b[0m"

	return greenBold + "[y]" + reset + " Yes    " + redBold + "[n]" + reset + " No"
}

func (a AppView) renderMarkdownAsync(messageID, content string) tea.Cmd {
	width := a.width
	return func() tea.Msg {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[UI] rendering markdown for message %s - %d chars", messageID, len(content))
		}

		// Strip markdown link syntax [text](url) → url so links show as
		// plain URLs the terminal can make clickable
		content = preprocessLinks(content)

		// Autolink is disabled so plain URLs stay plain text
		defaultExt := markdown.Extensions()
		customExt := defaultExt &^ parser.Autolink
		p := parser.NewWithExtensions(customExt)
		r := markdown.NewRenderer(width-4, 0)
		doc := p.Parse([]byte(content))
		rendered := gomarkdown.Render(doc, r)

		processed := fixInlineCode(string(rendered))
		processed = colorPlainURLs(processed)

		return appmodel.MarkdownRenderedMsg{
			MessageID: messageID,
			Rendered:  strings.TrimRight(processed, "\n"),
		}
	}
}

func preprocessLinks(content string) string {
	return mdLinkRegex.ReplaceAllString(content, "$2")
}

func fixInlineCode(s string) string {
	// Replace: \x1b[44;3m...text...\x1b[0m (Blue BG + Italic)
	// With:    \x1b[31m...text...\x1b[0m (Red text)
	return inlineCodeRegex.ReplaceAllString(s, "\x1b[31m$1\x1b[0m")
}

func colorPlainURLs(s string) string {
	redColor := "\x1b[31m"
	reset := "\x1b[0m"

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		// Skip code blocks (they carry a ┃ prefix from the renderer)
		if !strings.Contains(line, "┃") {
			lines[i] = urlRegex.ReplaceAllString(line, redColor+"$1"+reset)
		}
	}

	return strings.Join(lines, "\n")
}
