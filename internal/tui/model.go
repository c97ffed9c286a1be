package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/njtax/internal/calculation"
	"github.com/rgehrsitz/njtax/internal/config"
	"github.com/rgehrsitz/njtax/internal/domain"
	"github.com/rgehrsitz/njtax/internal/output"
	"github.com/rgehrsitz/njtax/internal/tui/scenes"
	"github.com/rgehrsitz/njtax/internal/tui/tuimsg"
)

// Model represents the entire application state
type Model struct {
	// Navigation
	currentScene  Scene
	previousScene Scene

	// Terminal dimensions
	width  int
	height int

	// Data
	paths      config.DataConfig
	dataset    *config.Dataset
	calculator *calculation.TaxCalculator

	// Scene models
	estimateModel *scenes.EstimateModel
	overviewModel *scenes.OverviewModel

	// Fatal load error
	err error

	loading bool
}

// NewModel creates a model that loads its dataset from paths on Init
func NewModel(paths config.DataConfig) Model {
	return Model{
		currentScene:  SceneEstimate,
		paths:         paths,
		estimateModel: scenes.NewEstimateModel(),
		overviewModel: scenes.NewOverviewModel(),
		loading:       true,
		width:         80,
		height:        24,
	}
}

// NewModelWithDataset creates a model over an already loaded dataset
func NewModelWithDataset(ds *config.Dataset) Model {
	m := NewModel(config.DataConfig{})
	m.setDataset(ds)
	return m
}

func (m *Model) setDataset(ds *config.Dataset) {
	m.dataset = ds
	m.calculator = calculation.NewTaxCalculator(ds.Rates)
	m.loading = false
}

// Estimate exposes the estimate scene, mainly for presetting fields
func (m Model) Estimate() *scenes.EstimateModel {
	return m.estimateModel
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	if m.dataset != nil {
		return nil
	}
	return loadDatasetCmd(m.paths)
}

// loadDatasetCmd returns a command that loads the rate tables and state file
func loadDatasetCmd(paths config.DataConfig) tea.Cmd {
	return func() tea.Msg {
		ds, err := config.NewInputParser().LoadDataset(paths)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return DatasetLoadedMsg{Dataset: ds}
	}
}

// calculateCmd runs the estimator off the update loop
func calculateCmd(calc *calculation.TaxCalculator, input domain.TaxInput) tea.Cmd {
	return func() tea.Msg {
		result, err := calc.CalculatePropertyTax(input)
		return tuimsg.CalculationCompleteMsg{Input: input, Result: result, Err: err}
	}
}

// overviewFor finds the stored overview for the estimated town, if any.
func (m Model) overviewFor(input domain.TaxInput) *output.OverviewReport {
	if m.dataset == nil || m.dataset.State == nil || input.Town == "" {
		return nil
	}
	county, ok := m.dataset.State.FindCounty(input.County)
	if !ok {
		return nil
	}
	town, ok := county.FindTown(input.Town)
	if !ok || town.Overview == nil {
		return nil
	}
	return output.NewOverviewReport(m.dataset.State, county, town)
}
