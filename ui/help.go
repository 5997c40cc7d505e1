package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func renderHelpModal(width, height int) string {
	rows := [][2]string{
		{"Enter", "Send message"},
		{"Alt+Enter", "Insert newline"},
		{"y / n", "Approve / decline a weather lookup"},
		{"Alt+M", "Model selector"},
		{"Alt+Y", "Copy last reply to clipboard"},
		{"Alt+H", "Toggle this help"},
		{"Alt+Q / Ctrl+C", "Quit"},
		{"PgUp / PgDn", "Scroll history"},
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("SkyCast Keys"))
	b.WriteString("\n\n")

	for _, row := range rows {
		b.WriteString(SelectedStyle.Render(padRight(row[0], 16)))
		b.WriteString(DimStyle.Render(row[1]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("Press any key to close"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accentColor).
		Padding(1, 2).
		Render(b.String())

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s + " "
	}
	return s + strings.Repeat(" ", width-len(s))
}
