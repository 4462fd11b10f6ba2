package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/bia/internal/domain"
)

// TemplateRegistry manages built-in scenario templates
type TemplateRegistry struct {
	templates map[string]Template
}

// Template represents a named collection of transforms
type Template struct {
	Name        string
	Description string
	Transforms  []ScenarioTransform
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(name)]
	return t, ok
}

// List returns all registered template names in sorted order
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CreateBuiltInTemplates creates a template registry with common payer negotiation
// and adoption scenarios
func CreateBuiltInTemplates() *TemplateRegistry {
	registry := NewTemplateRegistry()

	// Pricing
	registry.Register(Template{
		Name:        "deep_rebate",
		Description: "Negotiate a 40% manufacturer rebate",
		Transforms: []ScenarioTransform{
			&SetRebate{Percent: decimal.NewFromInt(40)},
		},
	})

	registry.Register(Template{
		Name:        "no_rebate",
		Description: "Pay full list price with no rebate",
		Transforms: []ScenarioTransform{
			&SetRebate{Percent: decimal.Zero},
		},
	})

	registry.Register(Template{
		Name:        "price_cut_20",
		Description: "List price falls by 20%",
		Transforms: []ScenarioTransform{
			&ScaleDrugCost{Factor: decimal.NewFromFloat(0.8)},
		},
	})

	// Uptake
	registry.Register(Template{
		Name:        "fast_uptake",
		Description: "Uptake 50% faster than baseline each year",
		Transforms: []ScenarioTransform{
			&ScaleUptake{Factor: decimal.NewFromFloat(1.5), Cap: decimal.NewFromInt(1)},
		},
	})

	registry.Register(Template{
		Name:        "slow_uptake",
		Description: "Uptake at half the baseline rate",
		Transforms: []ScenarioTransform{
			&ScaleUptake{Factor: decimal.NewFromFloat(0.5)},
		},
	})

	registry.Register(Template{
		Name:        "flat_uptake",
		Description: "Steady-state uptake from year 1",
		Transforms: []ScenarioTransform{
			FlattenUptake{},
		},
	})

	return registry
}

// ApplyTemplate applies a template to a base scenario. The result is named
// after the template.
func ApplyTemplate(base *domain.Scenario, template Template) (*domain.Scenario, error) {
	result, err := ApplyTransforms(base, template.Transforms)
	if err != nil {
		return nil, err
	}
	result.Name = template.Name
	result.Description = template.Description
	return result, nil
}

// ParseTemplateList parses a comma-separated list of template names
func ParseTemplateList(templateList string) []string {
	if templateList == "" {
		return nil
	}

	parts := strings.Split(templateList, ",")
	templates := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			templates = append(templates, trimmed)
		}
	}
	return templates
}

// GetTemplateHelp returns formatted help text for all templates
func GetTemplateHelp(registry *TemplateRegistry) string {
	if len(registry.templates) == 0 {
		return "No templates registered"
	}

	categories := map[string][]Template{}
	for _, name := range registry.List() {
		t := registry.templates[name]
		category := "Pricing"
		if strings.Contains(t.Name, "uptake") {
			category = "Uptake"
		}
		categories[category] = append(categories[category], t)
	}

	var sb strings.Builder
	sb.WriteString("Available Templates:\n\n")
	for _, category := range []string{"Pricing", "Uptake"} {
		templates := categories[category]
		if len(templates) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("%s:\n", category))
		for _, t := range templates {
			sb.WriteString(fmt.Sprintf("  %-20s %s\n", t.Name, t.Description))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Usage:\n")
	sb.WriteString("  bia compare scenarios.yaml --templates deep_rebate,fast_uptake\n")

	return sb.String()
}
