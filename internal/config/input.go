package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rgehrsitz/bia/internal/calculation"
	"github.com/rgehrsitz/bia/internal/domain"
)

// InputParser handles parsing of scenario configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads configuration from a YAML file. A relative population
// path is resolved against the directory holding the file.
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	config, err := ip.Parse(data)
	if err != nil {
		return nil, err
	}

	if p := config.Population.Path; p != "" && !filepath.IsAbs(p) {
		config.Population.Path = filepath.Join(filepath.Dir(filename), p)
	}

	return config, nil
}

// Parse decodes and validates a YAML configuration document.
func (ip *InputParser) Parse(data []byte) (*domain.Configuration, error) {
	var config domain.Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if err := ip.validatePopulation(&config.Population); err != nil {
		return fmt.Errorf("population: %w", err)
	}

	if len(config.Scenarios) == 0 {
		return fmt.Errorf("no scenarios provided")
	}

	seen := make(map[string]bool, len(config.Scenarios))
	for i := range config.Scenarios {
		scenario := &config.Scenarios[i]
		if err := ip.validateScenario(scenario); err != nil {
			return fmt.Errorf("scenario %d validation failed: %w", i, err)
		}
		key := strings.ToLower(scenario.Name)
		if seen[key] {
			return fmt.Errorf("duplicate scenario name %q", scenario.Name)
		}
		seen[key] = true
	}

	return nil
}

func (ip *InputParser) validatePopulation(src *domain.PopulationSource) error {
	if src.Path == "" && src.DatabaseURL == "" {
		return fmt.Errorf("either path or database_url is required")
	}
	if src.Path != "" && src.DatabaseURL != "" {
		return fmt.Errorf("path and database_url are mutually exclusive")
	}
	return nil
}

func (ip *InputParser) validateScenario(scenario *domain.Scenario) error {
	if strings.TrimSpace(scenario.Name) == "" {
		return fmt.Errorf("scenario name is required")
	}
	if err := calculation.ValidateInputs(scenario.Inputs); err != nil {
		return fmt.Errorf("%s: %w", scenario.Name, err)
	}
	return nil
}

// SaveConfiguration writes config as YAML.
func SaveConfiguration(config *domain.Configuration, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}

// NewExampleConfiguration returns a three scenario configuration built around
// the reference payer assumptions.
func NewExampleConfiguration(populationPath string) *domain.Configuration {
	base := domain.DefaultInputs()

	rebate := base.DeepCopy()
	rebate.RebatePercent = 40

	fast := base.DeepCopy()
	fast.UptakeRate = []float64{0.05, 0.10, 0.20, 0.25, 0.30}

	return &domain.Configuration{
		Population: domain.PopulationSource{Path: populationPath},
		Scenarios: []domain.Scenario{
			{Name: "Baseline", Description: "List price with a 25% rebate", Inputs: base},
			{Name: "Deep Rebate", Description: "Negotiated 40% rebate", Inputs: rebate},
			{Name: "Fast Uptake", Description: "Aggressive prescribing ramp", Inputs: fast},
		},
	}
}
