package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/njtax/internal/tui/tuimsg"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.estimateModel.SetSize(msg.Width, msg.Height)
		m.overviewModel.SetSize(msg.Width, msg.Height)
		return m, nil

	case NavigateMsg:
		m.previousScene = m.currentScene
		m.currentScene = msg.Scene
		return m, nil

	case ErrorMsg:
		m.err = msg.Err
		m.loading = false
		return m, nil

	case DatasetLoadedMsg:
		m.setDataset(msg.Dataset)
		return m, nil

	case tuimsg.CalculateRequestedMsg:
		if m.calculator == nil {
			return m, nil
		}
		return m, calculateCmd(m.calculator, msg.Input)

	case tuimsg.CalculationCompleteMsg:
		m.estimateModel.SetResult(msg.Result, msg.Err)
		if msg.Err == nil {
			m.overviewModel.SetReport(m.overviewFor(msg.Input))
		}
		return m, nil
	}

	return m.updateCurrentScene(msg)
}

// handleKeyPress processes keyboard input. Plain letters belong to the form,
// so global shortcuts use control keys.
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "ctrl+o":
		if m.currentScene != SceneOverview {
			return m, func() tea.Msg { return NavigateMsg{Scene: SceneOverview} }
		}

	case "f1":
		if m.currentScene != SceneHelp {
			return m, func() tea.Msg { return NavigateMsg{Scene: SceneHelp} }
		}

	case "esc":
		if m.currentScene != SceneEstimate {
			return m, func() tea.Msg { return NavigateMsg{Scene: SceneEstimate} }
		}
	}

	return m.updateCurrentScene(msg)
}

// updateCurrentScene delegates updates to the current scene's model
func (m Model) updateCurrentScene(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.currentScene {
	case SceneEstimate:
		if m.loading || m.err != nil {
			return m, nil
		}
		updated, cmd := m.estimateModel.Update(msg)
		m.estimateModel = updated
		return m, cmd
	}
	return m, nil
}
