package main

import (
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/njtax/internal/config"
	"github.com/rgehrsitz/njtax/internal/tui"
	"github.com/rgehrsitz/njtax/internal/tui/scenes"
)

var (
	configPath string
	dataDir    string
	county     string
)

var rootCmd = &cobra.Command{
	Use:   "njtax-tui",
	Short: "Interactive New Jersey property tax estimator",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			log.Fatal(err)
		}

		p := tea.NewProgram(newModel(cfg, county), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			log.Fatalf("running TUI: %v", err)
		}
	},
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "Path to config file (default: "+config.DefaultConfigFile+" if it exists)")
	rootCmd.Flags().StringVar(&dataDir, "data-dir", "", "Directory holding the data files (overrides config)")
	rootCmd.Flags().StringVar(&county, "county", "", "Preset the county field")
}

func loadConfig() (*config.AppConfig, error) {
	path := configPath
	if path == "" {
		if _, err := os.Stat(config.DefaultConfigFile); err == nil {
			path = config.DefaultConfigFile
		}
	}

	cfg, err := config.LoadAppConfig(path)
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.Data.Dir = dataDir
	}
	return cfg, nil
}

// newModel builds the TUI model, presetting the county field when given.
func newModel(cfg *config.AppConfig, county string) tui.Model {
	model := tui.NewModel(cfg.Data.Resolved())
	if county != "" {
		model.Estimate().SetValue(scenes.FieldCounty, county)
	}
	return model
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
