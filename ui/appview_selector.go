package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	appmodel "skycast/model"
)

func (a AppView) openModelSelector() (tea.Model, tea.Cmd) {
	a.showModelSelector = true
	a.selectedModelIdx = 0
	a.modelFilterMode = false
	a.modelFilterInput.SetValue("")
	a.filteredModelList = nil

	if a.modelListCached {
		return a, nil
	}
	return a, a.dataModel.FetchModelList()
}

func (a AppView) handleModelsList(msg appmodel.ModelsListMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		if a.showModelSelector {
			a.showModelSelector = false
			a.statusNotice = fmt.Sprintf("Could not list models: %v", msg.Err)
		}
		return a, nil
	}

	a.modelList = msg.Models
	a.modelListCached = true
	return a, nil
}

func (a AppView) handleModelSelectorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.modelFilterMode {
		switch msg.String() {
		case "esc":
			a.modelFilterMode = false
			a.modelFilterInput.Blur()
			a.modelFilterInput.SetValue("")
			a.filteredModelList = nil
			a.selectedModelIdx = 0
			return a, nil
		case "enter":
			a.modelFilterMode = false
			a.modelFilterInput.Blur()
			return a, nil
		default:
			var cmd tea.Cmd
			a.modelFilterInput, cmd = a.modelFilterInput.Update(msg)
			a.filteredModelList = filterModels(a.modelList, a.modelFilterInput.Value())
			a.selectedModelIdx = 0
			return a, cmd
		}
	}

	list := a.getModelList()

	switch msg.String() {
	case "esc", "alt+m":
		a.showModelSelector = false
		return a, nil

	case "up", "k":
		if a.selectedModelIdx > 0 {
			a.selectedModelIdx--
		}
		return a, nil

	case "down", "j":
		if a.selectedModelIdx < len(list)-1 {
			a.selectedModelIdx++
		}
		return a, nil

	case "/":
		a.modelFilterMode = true
		a.modelFilterInput.Focus()
		return a, textinput.Blink

	case "enter":
		if a.selectedModelIdx < len(list) {
			selected := list[a.selectedModelIdx]
			a.dataModel.Provider.SetModel(selected.InternalName)
			a.statusNotice = fmt.Sprintf("Switched to %s", selected.Name)
		}
		a.showModelSelector = false
		return a, nil
	}

	return a, nil
}

func filterModels(models []appmodel.ModelInfo, query string) []appmodel.ModelInfo {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	targets := make([]string, len(models))
	for i, m := range models {
		targets[i] = m.Name
	}

	matches := fuzzy.Find(query, targets)
	filtered := make([]appmodel.ModelInfo, 0, len(matches))
	for _, match := range matches {
		filtered = append(filtered, models[match.Index])
	}
	return filtered
}

func renderModelSelector(models []appmodel.ModelInfo, selectedIdx int, currentModel string, filterMode bool, filterInput textinput.Model, width, height int) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Select Model"))
	b.WriteString("\n\n")

	if filterMode {
		b.WriteString(filterInput.View())
		b.WriteString("\n\n")
	}

	if len(models) == 0 {
		b.WriteString(DimStyle.Render("No models available."))
		b.WriteString("\n")
	}

	for i, m := range models {
		marker := "  "
		line := fmt.Sprintf("%s (%s)", m.Name, m.Provider)
		if m.Size > 0 {
			line = fmt.Sprintf("%s (%s, %.1f GB)", m.Name, m.Provider, float64(m.Size)/(1024*1024*1024))
		}
		if m.InternalName == currentModel {
			line += " *"
		}

		if i == selectedIdx {
			marker = SelectedStyle.Render("> ")
			line = SelectedStyle.Render(line)
		}
		b.WriteString(marker + line + "\n")
	}

	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("↑/↓ Navigate  Enter Select  / Filter  Esc Close"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accentColor).
		Padding(1, 2).
		Render(b.String())

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
