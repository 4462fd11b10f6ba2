package compare

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/bia/internal/domain"
)

// ComparisonResult represents a single scenario comparison with calculated metrics
type ComparisonResult struct {
	ScenarioName string                  `json:"scenarioName"`
	Description  string                  `json:"description,omitempty"`
	Summary      *domain.ScenarioSummary `json:"summary,omitempty"`

	// Key Metrics
	CumulativeNetImpact decimal.Decimal `json:"cumulativeNetImpact"`
	CumulativeGrossCost decimal.Decimal `json:"cumulativeGrossCost"`
	CumulativeOffsets   decimal.Decimal `json:"cumulativeOffsets"`
	EventsAvoided       decimal.Decimal `json:"eventsAvoided"`
	FinalYearNetImpact  decimal.Decimal `json:"finalYearNetImpact"`
	FinalYearPMPM       decimal.Decimal `json:"finalYearPmpm"`

	// Comparison to Base
	NetImpactDiffFromBase decimal.Decimal `json:"netImpactDiffFromBase"`
	NetImpactPctFromBase  decimal.Decimal `json:"netImpactPctFromBase"`
	EventsAvoidedDiff     decimal.Decimal `json:"eventsAvoidedDiff"`
	PMPMDiffFromBase      decimal.Decimal `json:"pmpmDiffFromBase"`

	// Scenario specifics (extracted for display)
	DrugAnnualCost  float64 `json:"drugAnnualCost"`
	RebatePercent   float64 `json:"rebatePercent"`
	FinalYearUptake float64 `json:"finalYearUptake"`
}

// ComparisonSet represents a collection of scenario comparisons
type ComparisonSet struct {
	BaseScenarioName   string             `json:"baseScenarioName"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
	ConfigPath         string             `json:"configPath,omitempty"`
	SampleSize         int                `json:"sampleSize"`
}

// ToScenarioComparison converts a ComparisonSet to a domain.ScenarioComparison for report output
func (cs *ComparisonSet) ToScenarioComparison(assumptions []string) *domain.ScenarioComparison {
	scenarios := make([]domain.ScenarioSummary, 0, len(cs.AlternativeResults)+1)

	if cs.BaseResult != nil && cs.BaseResult.Summary != nil {
		scenarios = append(scenarios, *cs.BaseResult.Summary)
	}
	for _, result := range cs.AlternativeResults {
		if result.Summary != nil {
			scenarios = append(scenarios, *result.Summary)
		}
	}

	return &domain.ScenarioComparison{
		Scenarios:   scenarios,
		SampleSize:  cs.SampleSize,
		Assumptions: assumptions,
	}
}

// MetricsCalculator extracts key metrics from scenario summaries
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics computes all comparison metrics for a scenario summary
func (mc *MetricsCalculator) CalculateMetrics(summary *domain.ScenarioSummary) (ComparisonResult, error) {
	totals, err := domain.Totals(summary.Results, summary.Inputs.TargetPopulationSize)
	if err != nil {
		return ComparisonResult{}, fmt.Errorf("scenario %s: %w", summary.Name, err)
	}

	result := ComparisonResult{
		ScenarioName:        summary.Name,
		Description:         summary.Description,
		Summary:             summary,
		CumulativeNetImpact: totals.CumulativeNetImpact,
		CumulativeGrossCost: totals.CumulativeGrossCost,
		CumulativeOffsets:   totals.CumulativeMedicalOffsets,
		EventsAvoided:       totals.TotalEventsAvoided,
		FinalYearNetImpact:  totals.FinalYearNetImpact,
		FinalYearPMPM:       totals.FinalYearPMPM,
		DrugAnnualCost:      summary.Inputs.DrugAnnualCost,
		RebatePercent:       summary.Inputs.RebatePercent,
	}

	if final, ok := summary.FinalYear(); ok {
		result.FinalYearUptake = final.CumulativeUptake
	}

	return result, nil
}

// CalculateComparison computes comparison metrics between a scenario and a base
func (mc *MetricsCalculator) CalculateComparison(scenario, base ComparisonResult) ComparisonResult {
	scenario.NetImpactDiffFromBase = scenario.CumulativeNetImpact.Sub(base.CumulativeNetImpact)

	if !base.CumulativeNetImpact.IsZero() {
		scenario.NetImpactPctFromBase = scenario.NetImpactDiffFromBase.
			Div(base.CumulativeNetImpact.Abs()).
			Mul(decimal.NewFromInt(100))
	}

	scenario.EventsAvoidedDiff = scenario.EventsAvoided.Sub(base.EventsAvoided)
	scenario.PMPMDiffFromBase = scenario.FinalYearPMPM.Sub(base.FinalYearPMPM)

	return scenario
}

// GenerateRecommendations creates recommendations based on comparison results.
// Lower net impact is better for the payer.
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if compSet.BaseResult == nil || len(compSet.AlternativeResults) == 0 {
		return recommendations
	}

	lowestImpact := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.CumulativeNetImpact.LessThan(lowestImpact.CumulativeNetImpact) {
			lowestImpact = alt
		}
	}
	if lowestImpact != compSet.BaseResult {
		savings := compSet.BaseResult.CumulativeNetImpact.Sub(lowestImpact.CumulativeNetImpact)
		recommendations = append(recommendations,
			"Lowest Budget Impact: "+lowestImpact.ScenarioName+" reduces five year net impact by $"+
				savings.StringFixed(0)+" versus base scenario")
	}

	mostEvents := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.EventsAvoided.GreaterThan(mostEvents.EventsAvoided) {
			mostEvents = alt
		}
	}
	if mostEvents != compSet.BaseResult {
		extra := mostEvents.EventsAvoided.Sub(compSet.BaseResult.EventsAvoided)
		recommendations = append(recommendations,
			"Most Events Avoided: "+mostEvents.ScenarioName+" averts "+extra.StringFixed(1)+
				" additional cardiovascular events")
	}

	lowestPMPM := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.FinalYearPMPM.LessThan(lowestPMPM.FinalYearPMPM) {
			lowestPMPM = alt
		}
	}
	if lowestPMPM != compSet.BaseResult {
		recommendations = append(recommendations,
			"Lowest Premium Pressure: "+lowestPMPM.ScenarioName+" has a year 5 PMPM of $"+
				lowestPMPM.FinalYearPMPM.StringFixed(2))
	}

	return recommendations
}
