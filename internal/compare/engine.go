package compare

import (
	"context"
	"fmt"
	"strings"

	"github.com/rgehrsitz/bia/internal/calculation"
	"github.com/rgehrsitz/bia/internal/domain"
	"github.com/rgehrsitz/bia/internal/transform"
)

// CompareEngine orchestrates scenario comparison
type CompareEngine struct {
	CalcEngine        *calculation.ProjectionEngine
	MetricsCalculator *MetricsCalculator
	TemplateRegistry  *transform.TemplateRegistry
	TransformRegistry *transform.TransformRegistry
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(calcEngine *calculation.ProjectionEngine) *CompareEngine {
	if calcEngine == nil {
		calcEngine = calculation.NewProjectionEngine()
	}
	return &CompareEngine{
		CalcEngine:        calcEngine,
		MetricsCalculator: NewMetricsCalculator(),
		TemplateRegistry:  transform.CreateBuiltInTemplates(),
		TransformRegistry: transform.NewTransformRegistry(),
	}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	BaseScenarioName string   // Name of the base scenario to compare against; defaults to the first
	Scenarios        []string // Other configured scenarios to compare
	Templates        []string // Built-in templates applied to the base
	Transforms       []string // Transform specs combined into one custom alternative
}

// Compare runs the base scenario and every requested alternative against sample.
func (ce *CompareEngine) Compare(
	ctx context.Context,
	config *domain.Configuration,
	sample []domain.Member,
	options CompareOptions,
) (*ComparisonSet, error) {
	if len(config.Scenarios) == 0 {
		return nil, fmt.Errorf("no scenarios provided")
	}

	baseScenario := &config.Scenarios[0]
	if options.BaseScenarioName != "" {
		var ok bool
		baseScenario, ok = config.FindScenario(options.BaseScenarioName)
		if !ok {
			return nil, fmt.Errorf("base scenario %s not found in configuration", options.BaseScenarioName)
		}
	}

	alternatives, err := ce.buildAlternatives(config, baseScenario, options)
	if err != nil {
		return nil, err
	}

	baseSummary, err := ce.CalcEngine.RunScenario(baseScenario, sample)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base scenario: %w", err)
	}
	baseResult, err := ce.MetricsCalculator.CalculateMetrics(baseSummary)
	if err != nil {
		return nil, err
	}

	results := make([]ComparisonResult, 0, len(alternatives))
	for _, alt := range alternatives {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		summary, err := ce.CalcEngine.RunScenario(alt, sample)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate scenario %s: %w", alt.Name, err)
		}

		altResult, err := ce.MetricsCalculator.CalculateMetrics(summary)
		if err != nil {
			return nil, err
		}
		results = append(results, ce.MetricsCalculator.CalculateComparison(altResult, baseResult))
	}

	compSet := &ComparisonSet{
		BaseScenarioName:   baseScenario.Name,
		BaseResult:         &baseResult,
		AlternativeResults: results,
		SampleSize:         len(sample),
	}
	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}

// CompareScenarios compares explicit scenarios (not using templates)
func (ce *CompareEngine) CompareScenarios(
	ctx context.Context,
	config *domain.Configuration,
	sample []domain.Member,
	baseScenarioName string,
	alternativeScenarioNames []string,
) (*ComparisonSet, error) {
	return ce.Compare(ctx, config, sample, CompareOptions{
		BaseScenarioName: baseScenarioName,
		Scenarios:        alternativeScenarioNames,
	})
}

// buildAlternatives resolves every requested alternative before any projection runs.
func (ce *CompareEngine) buildAlternatives(config *domain.Configuration, base *domain.Scenario, options CompareOptions) ([]*domain.Scenario, error) {
	var alternatives []*domain.Scenario

	for _, name := range options.Scenarios {
		scenario, ok := config.FindScenario(name)
		if !ok {
			return nil, fmt.Errorf("alternative scenario %s not found", name)
		}
		alternatives = append(alternatives, scenario)
	}

	for _, templateName := range options.Templates {
		template, ok := ce.TemplateRegistry.Get(templateName)
		if !ok {
			return nil, fmt.Errorf("template %s not found", templateName)
		}

		modified, err := transform.ApplyTemplate(base, template)
		if err != nil {
			return nil, fmt.Errorf("failed to apply template %s: %w", templateName, err)
		}
		modified.Name = base.Name + "_" + template.Name
		alternatives = append(alternatives, modified)
	}

	if len(options.Transforms) > 0 {
		transforms := make([]transform.ScenarioTransform, 0, len(options.Transforms))
		descriptions := make([]string, 0, len(options.Transforms))
		for _, spec := range options.Transforms {
			t, err := ce.TransformRegistry.ParseTransformSpec(spec)
			if err != nil {
				return nil, fmt.Errorf("invalid transform %q: %w", spec, err)
			}
			transforms = append(transforms, t)
			descriptions = append(descriptions, t.Description())
		}

		modified, err := transform.ApplyTransforms(base, transforms)
		if err != nil {
			return nil, err
		}
		modified.Name = base.Name + "_custom"
		modified.Description = strings.Join(descriptions, "; ")
		alternatives = append(alternatives, modified)
	}

	return alternatives, nil
}
