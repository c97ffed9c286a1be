package tui

import (
	"github.com/rgehrsitz/njtax/internal/config"
)

// Scene represents different screens in the TUI
type Scene int

const (
	SceneEstimate Scene = iota
	SceneOverview
	SceneHelp
)

// String returns a human-readable name for a scene
func (s Scene) String() string {
	switch s {
	case SceneEstimate:
		return "Estimate"
	case SceneOverview:
		return "Town Overview"
	case SceneHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// NavigateMsg switches to a different scene
type NavigateMsg struct {
	Scene Scene
}

// ErrorMsg reports a fatal load error
type ErrorMsg struct {
	Err error
}

// DatasetLoadedMsg signals the rate tables and state data have been loaded
type DatasetLoadedMsg struct {
	Dataset *config.Dataset
}
