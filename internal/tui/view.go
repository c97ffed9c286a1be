package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the current state of the application
func (m Model) View() string {
	if m.err != nil {
		return m.renderApp(ErrorStyle.Render("Error: "+m.err.Error()) + "\n\n" + SubtitleStyle.Render("Press ctrl+c to quit"))
	}
	if m.loading {
		return m.renderApp(InfoStyle.Render("Loading rate tables..."))
	}

	var content string
	switch m.currentScene {
	case SceneEstimate:
		content = m.estimateModel.View()
	case SceneOverview:
		content = m.overviewModel.View()
	case SceneHelp:
		content = m.renderHelp()
	default:
		content = "Unknown scene"
	}

	return m.renderApp(content)
}

// renderApp wraps content with title bar and status bar
func (m Model) renderApp(content string) string {
	title := TitleStyle.Render("NJ Property Tax Estimator")
	breadcrumb := SubtitleStyle.Render(m.currentScene.String())

	contentHeight := m.height - 5
	if contentHeight < 1 {
		contentHeight = 1
	}
	container := lipgloss.NewStyle().Height(contentHeight).Render(content)

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinVertical(lipgloss.Left, title, breadcrumb),
		"",
		container,
		m.renderStatusBar(),
	)
}

func (m Model) renderStatusBar() string {
	keys := []struct{ key, desc string }{
		{"tab", "next field"},
		{"enter", "estimate"},
		{"ctrl+o", "overview"},
		{"f1", "help"},
		{"ctrl+r", "reset"},
		{"esc", "back"},
		{"ctrl+c", "quit"},
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = StatusKeyStyle.Render(k.key) + " " + k.desc
	}
	return StatusBarStyle.Width(m.width).Render(strings.Join(parts, " • "))
}

func (m Model) renderHelp() string {
	lines := []struct{ key, desc string }{
		{"tab / shift+tab", "move between fields"},
		{"enter", "estimate the annual and monthly tax"},
		{"ctrl+r", "clear the form"},
		{"ctrl+o", "show the overview for the estimated town"},
		{"esc", "return to the estimator"},
		{"ctrl+c", "quit"},
	}
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Keys") + "\n\n")
	for _, l := range lines {
		b.WriteString(HelpKeyStyle.Render(l.key) + "  " + HelpDescStyle.Render(l.desc) + "\n")
	}
	b.WriteString("\n" + SubtitleStyle.Render("Municipal rates add to the county rate. Unknown exemption ids are ignored."))
	return b.String()
}
