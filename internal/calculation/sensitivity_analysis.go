package calculation

import (
	"fmt"

	"github.com/rgehrsitz/bia/internal/domain"
	"github.com/shopspring/decimal"
)

// SensitivityAnalyzer sweeps one assumption at a time over an evenly spaced
// grid and projects every point independently.
type SensitivityAnalyzer struct {
	engine *ProjectionEngine
}

// NewSensitivityAnalyzer creates a new sensitivity analyzer
func NewSensitivityAnalyzer(engine *ProjectionEngine) *SensitivityAnalyzer {
	if engine == nil {
		engine = NewProjectionEngine()
	}
	return &SensitivityAnalyzer{engine: engine}
}

// AnalyzeSingleParameter performs a single parameter sensitivity analysis
func (sa *SensitivityAnalyzer) AnalyzeSingleParameter(
	base *domain.Scenario,
	parameter domain.SensitivityParameter,
	sample []domain.Member,
) (*domain.ParameterSensitivityAnalysis, error) {
	if base == nil {
		return nil, fmt.Errorf("base scenario cannot be nil")
	}

	baseResults, err := sa.engine.RunProjection(base.Inputs, sample)
	if err != nil {
		return nil, fmt.Errorf("failed to run base scenario: %w", err)
	}
	baseTotals, err := domain.Totals(baseResults, base.Inputs.TargetPopulationSize)
	if err != nil {
		return nil, fmt.Errorf("failed to total base scenario: %w", err)
	}

	results, err := sa.sweep(base, parameter, sample, baseTotals)
	if err != nil {
		return nil, err
	}

	summary := domain.SensitivitySummary{
		MostSensitiveParameter: parameter.Name,
		Swings:                 map[string]decimal.Decimal{parameter.Name: swing(results)},
	}
	summary.RiskLevel = summary.DetermineRiskLevel(baseTotals.CumulativeNetImpact)
	summary.Recommendations = summary.GenerateRecommendations()

	return &domain.ParameterSensitivityAnalysis{
		BaseScenarioName: base.Name,
		Parameters:       []domain.SensitivityParameter{parameter},
		Results:          results,
		Summary:          summary,
		AnalysisType:     "single",
	}, nil
}

// AnalyzeMultipleParameters sweeps each parameter on its own and reports
// which one moves the cumulative impact the most.
func (sa *SensitivityAnalyzer) AnalyzeMultipleParameters(
	base *domain.Scenario,
	parameters []domain.SensitivityParameter,
	sample []domain.Member,
) (*domain.ParameterSensitivityAnalysis, error) {
	if base == nil {
		return nil, fmt.Errorf("base scenario cannot be nil")
	}

	baseResults, err := sa.engine.RunProjection(base.Inputs, sample)
	if err != nil {
		return nil, fmt.Errorf("failed to run base scenario: %w", err)
	}
	baseTotals, err := domain.Totals(baseResults, base.Inputs.TargetPopulationSize)
	if err != nil {
		return nil, fmt.Errorf("failed to total base scenario: %w", err)
	}

	allResults := make([]domain.SensitivityResult, 0)
	swings := make(map[string]decimal.Decimal, len(parameters))
	mostSensitive := ""
	maxSwing := decimal.NewFromInt(-1)

	for _, param := range parameters {
		results, err := sa.sweep(base, param, sample, baseTotals)
		if err != nil {
			return nil, fmt.Errorf("failed to analyze parameter %s: %w", param.Name, err)
		}
		s := swing(results)
		swings[param.Name] = s
		if s.GreaterThan(maxSwing) {
			maxSwing = s
			mostSensitive = param.Name
		}
		allResults = append(allResults, results...)
	}

	summary := domain.SensitivitySummary{
		MostSensitiveParameter: mostSensitive,
		Swings:                 swings,
	}
	summary.RiskLevel = summary.DetermineRiskLevel(baseTotals.CumulativeNetImpact)
	summary.Recommendations = summary.GenerateRecommendations()

	return &domain.ParameterSensitivityAnalysis{
		BaseScenarioName: base.Name,
		Parameters:       parameters,
		Results:          allResults,
		Summary:          summary,
		AnalysisType:     "multi",
	}, nil
}

func (sa *SensitivityAnalyzer) sweep(
	base *domain.Scenario,
	parameter domain.SensitivityParameter,
	sample []domain.Member,
	baseTotals domain.ProjectionTotals,
) ([]domain.SensitivityResult, error) {
	values := GenerateParameterValues(parameter)
	results := make([]domain.SensitivityResult, 0, len(values))

	for _, value := range values {
		inputs, err := ApplyParameter(base.Inputs, parameter.Name, value)
		if err != nil {
			return nil, err
		}

		projection, err := sa.engine.RunProjection(inputs, sample)
		if err != nil {
			return nil, fmt.Errorf("failed to run scenario for %s=%s: %w", parameter.Name, value.String(), err)
		}

		totals, err := domain.Totals(projection, inputs.TargetPopulationSize)
		if err != nil {
			return nil, fmt.Errorf("failed to total scenario for %s=%s: %w", parameter.Name, value.String(), err)
		}
		results = append(results, domain.SensitivityResult{
			ParameterValues: map[string]decimal.Decimal{parameter.Name: value},
			ScenarioName:    fmt.Sprintf("%s_%s_%s", base.Name, parameter.Name, value.String()),
			Results:         projection,
			KeyMetrics: domain.SensitivityMetrics{
				CumulativeNetImpact: totals.CumulativeNetImpact,
				Year5NetImpact:      totals.FinalYearNetImpact,
				TotalEventsAvoided:  totals.TotalEventsAvoided,
				NetImpactChange:     totals.CumulativeNetImpact.Sub(baseTotals.CumulativeNetImpact),
			},
		})
	}

	return results, nil
}

// GenerateParameterValues returns Steps evenly spaced values from MinValue to
// MaxValue inclusive. One step or fewer yields just the base value.
func GenerateParameterValues(param domain.SensitivityParameter) []decimal.Decimal {
	if param.Steps <= 1 {
		return []decimal.Decimal{param.BaseValue}
	}

	values := make([]decimal.Decimal, 0, param.Steps)
	stepSize := param.MaxValue.Sub(param.MinValue).Div(decimal.NewFromInt(int64(param.Steps - 1)))
	for i := 0; i < param.Steps; i++ {
		values = append(values, param.MinValue.Add(stepSize.Mul(decimal.NewFromInt(int64(i)))))
	}
	values[param.Steps-1] = param.MaxValue
	return values
}

// ApplyParameter returns a copy of inputs with the named parameter set to value.
func ApplyParameter(inputs domain.SimulationInputs, name string, value decimal.Decimal) (domain.SimulationInputs, error) {
	modified := inputs.DeepCopy()
	v := value.InexactFloat64()

	switch name {
	case domain.ParamDrugAnnualCost:
		modified.DrugAnnualCost = v
	case domain.ParamRebatePercent:
		modified.RebatePercent = v
	case domain.ParamTargetPopulationSize:
		modified.TargetPopulationSize = v
	case domain.ParamUptakeScale:
		for i := range modified.UptakeRate {
			modified.UptakeRate[i] *= v
		}
	default:
		return inputs, fmt.Errorf("unknown sensitivity parameter: %s", name)
	}
	return modified, nil
}

// swing is the spread of cumulative net impact across a sweep.
func swing(results []domain.SensitivityResult) decimal.Decimal {
	if len(results) == 0 {
		return decimal.Zero
	}
	lo := results[0].KeyMetrics.CumulativeNetImpact
	hi := lo
	for _, r := range results[1:] {
		lo = decimal.Min(lo, r.KeyMetrics.CumulativeNetImpact)
		hi = decimal.Max(hi, r.KeyMetrics.CumulativeNetImpact)
	}
	return hi.Sub(lo)
}
