package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rgehrsitz/njtax/internal/domain"
)

// InputParser loads the static rate tables and per-state metric files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// Dataset is everything the estimator and overview builder read at runtime.
// It is loaded once and shared read-only.
type Dataset struct {
	Rates domain.RateTables
	State *domain.StateData
}

// LoadDataset loads the rate tables and the state file named in paths
func (ip *InputParser) LoadDataset(paths DataConfig) (*Dataset, error) {
	rates, err := ip.LoadRateTables(paths.CountyRates, paths.MunicipalRates, paths.Exemptions)
	if err != nil {
		return nil, err
	}

	state, err := ip.LoadStateData(paths.StateFile)
	if err != nil {
		return nil, err
	}

	return &Dataset{Rates: rates, State: state}, nil
}

// LoadRateTables reads the flat county, municipal, and exemption lookup tables.
// The municipal and exemption files are optional; an empty path yields an empty table.
func (ip *InputParser) LoadRateTables(countyPath, municipalPath, exemptionsPath string) (domain.RateTables, error) {
	tables := domain.RateTables{
		County:     domain.RateTable{},
		Municipal:  domain.MunicipalRateTable{},
		Exemptions: domain.ExemptionTable{},
	}

	if countyPath == "" {
		return tables, fmt.Errorf("county rate file is required")
	}
	if err := readJSON(countyPath, &tables.County); err != nil {
		return tables, err
	}
	if municipalPath != "" {
		if err := readJSON(municipalPath, &tables.Municipal); err != nil {
			return tables, err
		}
	}
	if exemptionsPath != "" {
		if err := readJSON(exemptionsPath, &tables.Exemptions); err != nil {
			return tables, err
		}
	}

	return tables, nil
}

// stateHeader is the "state" object at the top of a state file.
type stateHeader struct {
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Abbreviation string `json:"abbreviation"`
	AsOfYear     int    `json:"asOfYear,omitempty"`
}

// stateFile is the on-disk layout of a per-state data file.
type stateFile struct {
	State    stateHeader          `json:"state"`
	Sources  map[string]rawSource `json:"sources"`
	Metrics  *domain.StateMetrics `json:"metrics,omitempty"`
	Counties []domain.CountyData  `json:"counties"`
}

// rawSource accepts both the canonical attribution shape and the older
// {name, reference, url} shape.
type rawSource struct {
	Publisher   string         `json:"publisher,omitempty"`
	Title       string         `json:"title,omitempty"`
	Type        string         `json:"type,omitempty"`
	HomepageURL string         `json:"homepageUrl,omitempty"`
	YearURLs    map[int]string `json:"yearUrls,omitempty"`

	Name      string `json:"name,omitempty"`
	Reference string `json:"reference,omitempty"`
	URL       string `json:"url,omitempty"`
}

func (rs rawSource) normalize() domain.Source {
	src := domain.Source{
		Publisher:   rs.Publisher,
		Title:       rs.Title,
		Type:        rs.Type,
		HomepageURL: rs.HomepageURL,
		YearURLs:    rs.YearURLs,
	}
	if src.Publisher == "" {
		src.Publisher = rs.Name
	}
	if src.Title == "" {
		src.Title = rs.Reference
	}
	if src.HomepageURL == "" {
		src.HomepageURL = rs.URL
	}
	return src
}

// LoadStateData reads a per-state JSON file and normalizes its sources
func (ip *InputParser) LoadStateData(filename string) (*domain.StateData, error) {
	var file stateFile
	if err := readJSON(filename, &file); err != nil {
		return nil, err
	}
	if file.State.Name == "" {
		return nil, fmt.Errorf("state file %s: state name is required", filename)
	}

	state := &domain.StateData{
		Name:         file.State.Name,
		Slug:         file.State.Slug,
		Abbreviation: file.State.Abbreviation,
		AsOfYear:     file.State.AsOfYear,
		Sources:      make(map[string]domain.Source, len(file.Sources)),
		Metrics:      file.Metrics,
		Counties:     file.Counties,
	}
	for ref, raw := range file.Sources {
		state.Sources[ref] = raw.normalize()
	}

	return state, nil
}

// MarshalStateData renders state in the on-disk layout read by LoadStateData.
// Sources are always written in the canonical shape.
func MarshalStateData(state *domain.StateData) ([]byte, error) {
	file := stateFile{
		State: stateHeader{
			Name:         state.Name,
			Slug:         state.Slug,
			Abbreviation: state.Abbreviation,
			AsOfYear:     state.AsOfYear,
		},
		Sources:  make(map[string]rawSource, len(state.Sources)),
		Metrics:  state.Metrics,
		Counties: state.Counties,
	}
	for ref, src := range state.Sources {
		file.Sources[ref] = rawSource{
			Publisher:   src.Publisher,
			Title:       src.Title,
			Type:        src.Type,
			HomepageURL: src.HomepageURL,
			YearURLs:    src.YearURLs,
		}
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal state data: %w", err)
	}
	return append(data, '\n'), nil
}

func readJSON(filename string, v any) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse JSON in %s: %w", filename, err)
	}
	return nil
}
